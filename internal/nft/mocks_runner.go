package nft

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockCommandRunner is a testify mock of CommandRunner.
//
// Expectations are matched against (stdin, program, args...), with stdin as
// a string:
//
//	m.On("Run", payload, "nft", "-j", "-f", "-").Return(Output{}, nil)
//
// The mock walks OnState through the same transitions as the real runner
// unless the call returns an error.
type MockCommandRunner struct {
	mock.Mock
}

// Run implements CommandRunner.
func (m *MockCommandRunner) Run(ctx context.Context, p Process) (Output, error) {
	callArgs := make([]interface{}, 0, len(p.Args)+2)
	callArgs = append(callArgs, string(p.Stdin), p.Program)
	for _, a := range p.Args {
		callArgs = append(callArgs, a)
	}
	result := m.Called(callArgs...)

	err := result.Error(1)
	if err == nil {
		p.report(StateSpawned)
		if p.Stdin != nil {
			p.report(StateWritingInput)
		}
		p.report(StateAwaitingExit)
	}
	out, _ := result.Get(0).(Output)
	return out, err
}
