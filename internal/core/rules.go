package core

// NewDefaultRulesEngine builds a rules engine with the built-in policy set.
func NewDefaultRulesEngine() *RulesEngine {
	engine := NewRulesEngine()
	engine.Register(NewMenuShapeRule())
	engine.Register(NewProtocolResolutionRule())
	engine.Register(NewDuplicateLeafRule())
	return engine
}
