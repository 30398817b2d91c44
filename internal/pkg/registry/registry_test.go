package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeModule struct {
	name     string
	priority int
	err      error
	inited   *[]string
}

func (m *fakeModule) Name() string  { return m.name }
func (m *fakeModule) Priority() int { return m.priority }
func (m *fakeModule) Init(ctx *ModuleContext) error {
	*m.inited = append(*m.inited, m.name)
	return m.err
}

func withRegistry(t *testing.T) {
	prev := moduleRegistry
	moduleRegistry = make(map[string]Module)
	t.Cleanup(func() { moduleRegistry = prev })
}

func TestInitModulesOrder(t *testing.T) {
	withRegistry(t)
	var inited []string
	Register(&fakeModule{name: "report", priority: 30, inited: &inited})
	Register(&fakeModule{name: "profile", priority: 1, inited: &inited})
	Register(&fakeModule{name: "post", priority: 20, inited: &inited})
	Register(&fakeModule{name: "notification", priority: 1, inited: &inited})

	assert.NoError(t, InitModules(&ModuleContext{}))
	assert.Equal(t, []string{"notification", "profile", "post", "report"}, inited)
}

func TestInitModulesStopsOnError(t *testing.T) {
	withRegistry(t)
	var inited []string
	Register(&fakeModule{name: "a", priority: 1, err: errors.New("boom"), inited: &inited})
	Register(&fakeModule{name: "b", priority: 2, inited: &inited})

	err := InitModules(&ModuleContext{})
	assert.ErrorContains(t, err, "init module a")
	assert.Equal(t, []string{"a"}, inited)
}
