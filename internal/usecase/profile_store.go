package usecase

import (
	"context"

	"pedidos/internal/domain/model"
	repo "pedidos/internal/repository"

	"github.com/labstack/gommon/log"
)

// ProfileStore はプロフィール一覧（管理画面）
type ProfileStore struct {
	storeState

	profiles repo.ProfileRepository
	logger   *log.Logger

	list []model.Profile
}

// DI
func NewProfileStore(profiles repo.ProfileRepository) *ProfileStore {
	return &ProfileStore{
		profiles: profiles,
		logger:   log.New("profiles"),
		list:     []model.Profile{},
	}
}

// FetchAll は role で絞り込んで取り直す（空なら全件）。
// 失敗したらメッセージを残して前の一覧のまま
func (s *ProfileStore) FetchAll(ctx context.Context, role model.Role) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.begin()
	defer s.end()

	list, err := s.profiles.List(ctx, role)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warnf("fetch profiles (rol=%q): %v", role, err)
		s.SetErr("Could not load profiles.")
		return
	}
	if ctx.Err() != nil {
		return
	}
	if list == nil {
		list = []model.Profile{}
	}

	s.mu.Lock()
	s.list = list
	s.errMsg = ""
	s.mu.Unlock()
}

func (s *ProfileStore) Profiles() []model.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Profile, len(s.list))
	copy(out, s.list)
	return out
}

// Reset はログアウト時に呼ばれる
func (s *ProfileStore) Reset() {
	s.mu.Lock()
	s.list = []model.Profile{}
	s.errMsg = ""
	s.mu.Unlock()
}
