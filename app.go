package razed

import (
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

// Module installs resources and systems into the app.
type Module interface {
	Install(app *App)
}

// App owns the registered resources and runs the stage loop. Systems are
// plain functions; their pointer parameters are resolved from the
// resource set by type at call time.
type App struct {
	modules   []Module
	stages    []Stage
	systems   map[string][]systemFn
	resources []any
	byType    map[reflect.Type]any
	exiting   bool
}

// AddResources registers resources for injection. Registering two
// resources of the same type is a programmer error.
func (app *App) AddResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if resourceType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("resources must be pointers, got %s", resourceType))
		}
		if _, ok := app.byType[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}
		app.byType[resourceType.Elem()] = resource
		app.resources = append(app.resources, resource)
	}
	return app
}

// Resource returns the registered resource assignable to the pointer
// target, or false when none is registered.
func Resource[T any](app *App) (*T, bool) {
	var zero T
	r, ok := app.byType[reflect.TypeOf(zero)]
	if !ok {
		return nil, false
	}
	return r.(*T), true
}

// Exit stops the run loop after the current pass over the stages.
func (app *App) Exit() {
	app.exiting = true
}

// Run executes the stage loop until Exit is called.
func (app *App) Run() {
	for !app.exiting {
		app.Step()
	}
}

// Step runs one pass over every stage in order.
func (app *App) Step() {
	for _, stage := range app.stages {
		for _, system := range app.systems[stage.Name] {
			app.callSystem(system)
		}
	}
}

func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())
	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		if argType == reflect.TypeOf(&App{}) {
			args[i] = reflect.ValueOf(app)
			continue
		}
		resource, ok := app.byType[argType.Elem()]
		if !ok {
			panic(fmt.Sprintf("unable to resolve system dependency\nsystem: %s\ndependency: %s",
				runtime.FuncForPC(systemValue.Pointer()).Name(),
				argType,
			))
		}
		args[i] = reflect.ValueOf(resource)
	}
	systemValue.Call(args)
}
