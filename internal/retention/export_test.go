package retention

import "time"

func (p *Pruner) SetClock(now func() time.Time) {
	p.now = now
}
