package pool

// clone produces a defensive deep copy of price/tick/emission/rewarder
// state for read-only swap previews (spec.md section 4.2:
// "calculate_swap_result* is a read-only simulation ... against a
// cloned copy of the mutable state"). Positions are not cloned since no
// swap preview touches PositionInfo. Collaborators (Config, Vault,
// Partner) are shared by reference since previews never call them, and
// EventSink, logger, metrics and tracer are set to nil so a preview
// never emits events or pool-level telemetry.
func (p *Pool) clone() *Pool {
	cp := *p
	cp.Ticks = p.Ticks.Clone()
	cp.Emission = p.Emission.Clone()
	cp.Rewarders = p.Rewarders.Clone()
	cp.EventSink = nil
	cp.logger = nil
	cp.metrics = nil
	cp.tracer = nil
	return &cp
}
