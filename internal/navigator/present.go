package navigator

import (
	"context"
	"time"

	"github.com/dshills/problemnav/internal/marker"
)

// Method selects how a marker is surfaced when the filter covers more than
// errors.
type Method string

const (
	// MethodMarker always uses the host's marker navigation widget.
	MethodMarker Method = "marker"
	// MethodHover reveals the marker and shows a hover.
	MethodHover Method = "hover"
)

// DefaultSettleDelay is how long to wait for a smooth scroll to finish before
// showing a hover; scrolling hides the hover.
const DefaultSettleDelay = 150 * time.Millisecond

// Presentation is the policy applied after a successful selection.
type Presentation struct {
	// Method applies only when the filter is not errors-only; errors always
	// use the marker widget.
	Method Method

	// SmoothScrolling makes the navigator wait SettleDelay after a reveal.
	SmoothScrolling bool

	// SettleDelay is the wait after a smooth scroll.
	SettleDelay time.Duration
}

// DefaultPresentation returns the default presentation policy.
func DefaultPresentation() Presentation {
	return Presentation{
		Method:      MethodHover,
		SettleDelay: DefaultSettleDelay,
	}
}

func (n *Navigator) presentInFile(ctx context.Context, ed Editor, filter marker.SeverityFilter, dir Direction, pos marker.Position) error {
	if n.presenter == nil {
		return nil
	}

	if err := n.presenter.CloseMarkerNavigation(ctx); err != nil {
		return err
	}

	if filter.IsErrorOnly() || n.presentation.Method == MethodMarker {
		return n.presenter.ShowMarkerNavigation(ctx, dir, false)
	}

	if ed.RevealIfOutsideViewport(pos) && n.presentation.SmoothScrolling {
		settle(ctx, n.presentation.SettleDelay)
	}

	return n.presenter.ShowHover(ctx)
}

func (n *Navigator) presentAcrossFiles(ctx context.Context, dir Direction) error {
	if n.presenter == nil {
		return nil
	}

	if err := n.presenter.CloseMarkerNavigation(ctx); err != nil {
		return err
	}
	return n.presenter.ShowMarkerNavigation(ctx, dir, true)
}

// settle waits for d or until ctx is done.
func settle(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
