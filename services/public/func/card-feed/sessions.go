package main

import (
	"card-swipe/internal/service"
	"context"

	lru "github.com/hashicorp/golang-lru"
)

// SessionStore keeps swipe sessions alive across invocations served by the
// same warm container. An evicted session is simply started again.
type SessionStore struct {
	cache  *lru.Cache
	swiper *service.Swiper
}

func NewSessionStore(swiper *service.Swiper, size int) (*SessionStore, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &SessionStore{
		cache:  cache,
		swiper: swiper,
	}, nil
}

// Start builds a fresh queue for viewer.
func (s *SessionStore) Start(ctx context.Context, viewer string) (*service.SwipeSession, error) {
	session := s.swiper.NewSession(viewer)
	if err := session.Load(ctx); err != nil {
		return nil, err
	}
	s.cache.Add(session.ID, session)
	return session, nil
}

// Resume returns the cached session for id, or starts a new one when it is
// unknown or belongs to another viewer. resumed reports which happened.
func (s *SessionStore) Resume(ctx context.Context, id, viewer string) (session *service.SwipeSession, resumed bool, err error) {
	if value, ok := s.cache.Get(id); ok {
		if cached := value.(*service.SwipeSession); cached.Viewer == viewer {
			return cached, true, nil
		}
	}
	session, err = s.Start(ctx, viewer)
	return session, false, err
}

func (s *SessionStore) Len() int {
	return s.cache.Len()
}
