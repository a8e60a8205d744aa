package lifecycle

import (
	"fmt"
	"time"

	"github.com/Vitek192/sola-sub000/internal/domain/models"
	"github.com/Vitek192/sola-sub000/pkg/util"
)

// rugPullDrop is the change-from-launch below which a token is treated as
// rugged.
const rugPullDrop = -0.90

// Decision is the outcome of the removal checks for one token.
type Decision struct {
	Remove bool
	Reason string
}

// Decide applies the removal checks in strict priority order; the first
// match wins. Owned tokens are never removed regardless of what matched.
// Deterministic and side-effect-free.
func Decide(t *models.Token, age time.Duration, th Thresholds, maxAge time.Duration) Decision {
	if t.IsOwned {
		return Decision{}
	}

	latest := t.Latest()

	if age > maxAge {
		days := int(maxAge / (24 * time.Hour))
		hours := int((maxAge % (24 * time.Hour)) / time.Hour)
		return Decision{Remove: true, Reason: fmt.Sprintf("Expired (> %dd %dh)", days, hours)}
	}

	if latest.Liquidity < th.MinLiquidity {
		return Decision{Remove: true, Reason: fmt.Sprintf("Liq < Stage Minimum (%s)", util.FormatAmount(th.MinLiquidity))}
	}

	if latest.MarketCap > th.MaxMcap {
		return Decision{Remove: true, Reason: fmt.Sprintf("MCAP > Stage Max (%s)", util.FormatAmount(th.MaxMcap))}
	}

	if first := t.First(); first.Price > 0 {
		if (latest.Price-first.Price)/first.Price < rugPullDrop {
			return Decision{Remove: true, Reason: "Rug Pull (-90%)"}
		}
	}

	return Decision{}
}
