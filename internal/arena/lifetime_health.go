package arena

import "cosmic-arena/internal/ecs"

// lifetimeSystem decrements every Lifetime by dt; entities reaching zero or
// below are queued during iteration and despawned once it completes, so
// despawning a projectile never disturbs the iteration that found it.
func (s *Simulation) lifetimeSystem(dt float64) {
	var expired []ecs.Entity

	ecs.Each1(s.store, func(e ecs.Entity, l *Lifetime) {
		l.Remaining -= dt
		if l.Remaining <= 0 {
			expired = append(expired, e)
		}
	})

	for _, e := range expired {
		s.despawnEntityLocked(e)
	}
}

// healthSystem never decreases health — it only regenerates shield once
// shield_recharge_delay has elapsed since the last damage event. Damage
// itself is a planned extension point: when applied, it must set
// LastDamageTime and reduce Shield before Current.
func (s *Simulation) healthSystem(dt float64) {
	now := s.simTime()

	ecs.Each1(s.store, func(_ ecs.Entity, h *Health) {
		if now-h.LastDamageTime < h.ShieldRechargeDelay {
			return
		}
		if h.Shield >= h.ShieldMax {
			return
		}
		h.Shield += h.ShieldRechargeRate * dt
		if h.Shield > h.ShieldMax {
			h.Shield = h.ShieldMax
		}
	})
}
