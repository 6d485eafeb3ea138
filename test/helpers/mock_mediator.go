package helpers

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/andrescamacho/searoutes-go/internal/application/common"
)

// MockMediator is a test double for the Mediator interface. Requests with no
// configured response succeed with a nil response, so components that only
// record side effects (ledger entries) can be tested in isolation.
type MockMediator struct {
	mu       sync.Mutex
	sendFunc func(ctx context.Context, request common.Request) (common.Response, error)
	callLog  []common.Request
}

// NewMockMediator creates a new MockMediator
func NewMockMediator() *MockMediator {
	return &MockMediator{}
}

// Send implements the Mediator interface
func (m *MockMediator) Send(ctx context.Context, request common.Request) (common.Response, error) {
	m.mu.Lock()
	m.callLog = append(m.callLog, request)
	fn := m.sendFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, request)
	}
	return nil, nil
}

// SetSendFunc sets a custom function for Send calls
func (m *MockMediator) SetSendFunc(fn func(ctx context.Context, request common.Request) (common.Response, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendFunc = fn
}

// GetCallLog returns every request sent so far
func (m *MockMediator) GetCallLog() []common.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]common.Request{}, m.callLog...)
}

// CallNames returns the type name of every request sent so far
func (m *MockMediator) CallNames() []string {
	calls := m.GetCallLog()
	names := make([]string, len(calls))
	for i, c := range calls {
		names[i] = fmt.Sprintf("%T", c)
	}
	return names
}

// ClearCallLog clears the call log
func (m *MockMediator) ClearCallLog() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callLog = nil
}

// Register implements the Mediator interface (no-op for tests)
func (m *MockMediator) Register(requestType reflect.Type, handler common.RequestHandler) error {
	return nil
}

// RegisterMiddleware implements the Mediator interface (no-op for tests)
func (m *MockMediator) RegisterMiddleware(middleware common.Middleware) {
}

var _ common.Mediator = (*MockMediator)(nil)
