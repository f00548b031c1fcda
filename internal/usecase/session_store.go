package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"pedidos/internal/domain/model"
	repo "pedidos/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/gommon/log"
)

// アクセストークンのpayloadが読めない
var ErrInvalidToken = errors.New("invalid access token")

// SessionStore はログイン中のIdentityを持つ
type SessionStore struct {
	storeState

	tokens     repo.TokenRepository
	identities repo.IdentityRepository
	validator  InputValidator
	bus        *EventBus
	logger     *log.Logger

	current *model.Identity
}

// DI
func NewSessionStore(
	tokens repo.TokenRepository,
	identities repo.IdentityRepository,
	validator InputValidator,
	bus *EventBus,
) *SessionStore {
	return &SessionStore{
		tokens:     tokens,
		identities: identities,
		validator:  validator,
		bus:        bus,
		logger:     log.New("session"),
	}
}

// Login はトークンを取得してIdentityを保存する。
// ユーザー名・パスワードの誤りは (false, nil)。通信・サーバーのエラーは (false, err)
func (s *SessionStore) Login(ctx context.Context, username string, password string) (bool, error) {
	if err := s.validator.ValidateLogin(ctx, username, password); err != nil {
		return false, s.fail(NewUserError(http.StatusBadRequest, "Username and password are required.", err))
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.begin()
	defer s.end()

	pair, err := s.tokens.Obtain(ctx, username, password)
	if errors.Is(err, repo.ErrInvalidCredentials) {
		s.logger.Warnf("login rejected for %s", username)
		s.SetErr("Invalid username or password.")
		return false, nil
	}
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		s.logger.Errorf("login request failed for %s: %v", username, err)
		return false, s.fail(NewUserError(http.StatusBadGateway, "Could not log in. Please try again.", err))
	}

	identity, err := decodeIdentity(username, pair)
	if err != nil {
		s.logger.Errorf("login for %s: %v", username, err)
		return false, s.fail(NewUserError(http.StatusBadGateway, "Could not log in. Please try again.", err))
	}

	//キャンセル後の結果は捨てる
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err := s.identities.Save(ctx, identity); err != nil {
		s.logger.Errorf("save identity: %v", err)
		return false, s.fail(NewUserError(http.StatusInternalServerError, "Could not save the session.", err))
	}

	s.mu.Lock()
	s.current = &identity
	s.errMsg = ""
	s.mu.Unlock()

	s.logger.Infof("logged in: %s (id=%d rol=%s)", identity.Username, identity.ID, identity.Role)
	s.bus.Publish(ctx, Event{Kind: EventSessionChanged, Identity: identity, LoggedIn: true})
	return true, nil
}

// Logout は保持・保存しているIdentityを消す
func (s *SessionStore) Logout(ctx context.Context) error {
	return s.clear(ctx, false)
}

// Expire はトークン更新に失敗したときに呼ばれる（強制ログアウト）
func (s *SessionStore) Expire(ctx context.Context) {
	_ = s.clear(ctx, true)
}

// opMu は取らない（Expire はストアの処理中に呼ばれる）
func (s *SessionStore) clear(ctx context.Context, forced bool) error {
	s.mu.Lock()
	prev := s.current
	s.current = nil
	s.mu.Unlock()

	err := s.identities.Clear(ctx)
	if err != nil {
		s.logger.Errorf("clear identity: %v", err)
	}

	if prev == nil {
		return err
	}
	if forced {
		s.logger.Warnf("session expired: %s", prev.Username)
	} else {
		s.logger.Infof("logged out: %s", prev.Username)
	}
	s.bus.Publish(ctx, Event{Kind: EventSessionChanged, Identity: *prev, LoggedIn: false})
	return err
}

// Refreshed はクライアントがトークンを更新したときに呼ばれる
func (s *SessionStore) Refreshed(ctx context.Context, identity model.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.Username != identity.Username {
		return
	}
	s.current.Token = identity.Token
	s.current.RefreshToken = identity.RefreshToken
}

// Restore は起動時に保存済みのIdentityを読み込む。無い・読めないなら未ログイン
func (s *SessionStore) Restore(ctx context.Context) error {
	identity, err := s.identities.Load(ctx)
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	if errors.Is(err, repo.ErrCorruptRecord) {
		s.logger.Warnf("discarding stored session: %v", err)
		if err := s.identities.Clear(ctx); err != nil {
			s.logger.Errorf("clear identity: %v", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	s.mu.Lock()
	s.current = &identity
	s.mu.Unlock()
	s.logger.Infof("session restored: %s", identity.Username)
	return nil
}

// Current はログイン中のIdentity
func (s *SessionStore) Current() (model.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return model.Identity{}, false
	}
	return *s.current, true
}

// アクセストークンのpayloadから user_id と rol を取り出す。
// 署名の検証はサーバーの仕事なのでしない
func decodeIdentity(username string, pair model.TokenPair) (model.Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(pair.Access, claims); err != nil {
		return model.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID, err := parseUserID(claims["user_id"])
	if err != nil || userID <= 0 {
		return model.Identity{}, fmt.Errorf("%w: user_id", ErrInvalidToken)
	}

	//rolが無ければcliente
	rol, _ := parseString(claims["rol"])

	return model.Identity{
		Username:     username,
		ID:           userID,
		Role:         model.ParseRole(rol),
		Token:        pair.Access,
		RefreshToken: pair.Refresh,
	}, nil
}

// user_idをint64に変換する
func parseUserID(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, errors.New("invalid user_id")
	}
}

func parseString(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", errors.New("invalid string")
	}
	return s, nil
}
