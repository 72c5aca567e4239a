package adminauth_test

import (
	"context"
	"sync"

	adminauth "github.com/harborpay/go-adminauth"
	"github.com/stretchr/testify/mock"
)

// MockExecutor implements adminauth.RequestExecutor
type MockExecutor struct {
	mock.Mock
}

func (m *MockExecutor) Do(ctx context.Context, req adminauth.Request) (*adminauth.Response, error) {
	args := m.Called(ctx, req)
	var resp *adminauth.Response
	if v := args.Get(0); v != nil {
		resp = v.(*adminauth.Response)
	}
	return resp, args.Error(1)
}

// MockNavigator implements adminauth.Navigator
type MockNavigator struct {
	mock.Mock
}

func (m *MockNavigator) CurrentPath() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockNavigator) Redirect(path string) {
	m.Called(path)
}

// MockEventSink implements adminauth.EventSink
type MockEventSink struct {
	mock.Mock
}

func (m *MockEventSink) Record(ctx context.Context, event adminauth.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// recordingSink collects events without expectations.
type recordingSink struct {
	mu     sync.Mutex
	events []adminauth.Event
}

func (s *recordingSink) Record(_ context.Context, event adminauth.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) byType(t adminauth.EventType) []adminauth.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []adminauth.Event
	for _, event := range s.events {
		if event.EventType == t {
			out = append(out, event)
		}
	}
	return out
}

// countingStore wraps a MemoryStore and counts mutations.
type countingStore struct {
	*adminauth.MemoryStore

	mu      sync.Mutex
	deletes int
	sets    int
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStore: adminauth.NewMemoryStore()}
}

func (s *countingStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	s.sets++
	s.mu.Unlock()
	return s.MemoryStore.Set(ctx, key, value)
}

func (s *countingStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	s.deletes++
	s.mu.Unlock()
	return s.MemoryStore.Delete(ctx, key)
}

func (s *countingStore) deleteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deletes
}

func (s *countingStore) setCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets
}

// staticNavigator is a Navigator with a fixed current path.
type staticNavigator struct {
	mu        sync.Mutex
	current   string
	redirects []string
}

func (n *staticNavigator) CurrentPath() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *staticNavigator) Redirect(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.redirects = append(n.redirects, path)
	n.current = path
}

func (n *staticNavigator) redirectCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.redirects)
}

func requestTo(path string) interface{} {
	return mock.MatchedBy(func(req adminauth.Request) bool {
		return req.Path == path
	})
}
