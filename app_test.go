package razed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	value int
}

type recorderModule struct {
	order *[]string
}

func (m recorderModule) Install(app *App) {
	app.AddResources(&counter{})
	tag := func(name string) systemFn {
		return func(c *counter) {
			*m.order = append(*m.order, name)
			c.value++
		}
	}
	app.UseSystem(System(tag("update")))
	app.UseSystem(System(tag("prelude")).InStage(Prelude))
	app.UseSystem(System(tag("render")).InStage(Render))
}

func TestApp_SystemsRunInStageOrder(t *testing.T) {
	var order []string
	app := NewAppBuilder().
		UseModule(recorderModule{order: &order}).
		Build()

	app.Step()
	assert.Equal(t, []string{"prelude", "update", "render"}, order)

	c, ok := Resource[counter](app)
	require.True(t, ok)
	assert.Equal(t, 3, c.value)
}

func TestApp_AddResourcesRejectsDuplicatesAndValues(t *testing.T) {
	app := NewAppBuilder().Build()
	app.AddResources(&counter{})

	assert.Panics(t, func() { app.AddResources(&counter{}) })
	assert.Panics(t, func() { app.AddResources(counter{}) })
}

func TestApp_ResourceMissingReturnsFalse(t *testing.T) {
	app := NewAppBuilder().Build()
	_, ok := Resource[counter](app)
	assert.False(t, ok)
}

func TestApp_SystemsReceiveAppPointer(t *testing.T) {
	app := NewAppBuilder().Build()
	var got *App
	app.UseSystem(System(func(a *App) { got = a }))

	app.Step()
	assert.Same(t, app, got)
}

func TestApp_UnresolvableDependencyPanics(t *testing.T) {
	app := NewAppBuilder().Build()
	app.UseSystem(System(func(c *counter) {}))

	assert.Panics(t, func() { app.Step() })
}

func TestApp_ExitStopsRun(t *testing.T) {
	app := NewAppBuilder().Build()
	app.AddResources(&counter{})
	app.UseSystem(System(func(a *App, c *counter) {
		c.value++
		if c.value == 3 {
			a.Exit()
		}
	}))

	app.Run()

	c, _ := Resource[counter](app)
	assert.Equal(t, 3, c.value)
}

func TestApp_UseStageInsertsRelativeToTarget(t *testing.T) {
	var order []string
	custom := Stage{Name: "Custom"}

	app := NewAppBuilder().Build()
	app.AddResources(&counter{})
	app.UseStage(custom, AfterStage(Update))
	app.UseSystem(System(func(c *counter) { order = append(order, "update") }))
	app.UseSystem(System(func(c *counter) { order = append(order, "custom") }).InStage(custom))
	app.UseSystem(System(func(c *counter) { order = append(order, "post") }).InStage(PostUpdate))

	app.Step()
	assert.Equal(t, []string{"update", "custom", "post"}, order)
}

func TestApp_UseSystemUnknownStagePanics(t *testing.T) {
	app := NewAppBuilder().Build()
	assert.Panics(t, func() {
		app.UseSystem(System(func() {}).InStage(Stage{Name: "Missing"}))
	})
}
