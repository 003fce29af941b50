package razed

import (
	"reflect"
)

type AppBuilder struct {
	app     *App
	modules []Module
}

func NewAppBuilder() *AppBuilder {
	return &AppBuilder{app: &App{
		systems: make(map[string][]systemFn),
		byType:  make(map[reflect.Type]any),
		stages:  defaultStages(),
	}}
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)
	return b
}

func (b *AppBuilder) Build() *App {
	app := b.app
	for _, module := range b.modules {
		app.modules = append(app.modules, module)
		module.Install(app)
	}
	return app
}
