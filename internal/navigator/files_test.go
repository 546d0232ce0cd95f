package navigator

import (
	"context"
	"errors"
	"testing"

	"github.com/dshills/problemnav/internal/marker"
)

// threeFiles returns a provider with errors in a.go, b.go and c.go.
func threeFiles() fakeProvider {
	p := fakeProvider{}
	p.add("a.go", marker.SeverityError, 5, 0)
	p.add("a.go", marker.SeverityError, 1, 0)
	p.add("b.go", marker.SeverityError, 2, 0)
	p.add("c.go", marker.SeverityError, 8, 0)
	p.add("c.go", marker.SeverityError, 3, 0)
	return p
}

func TestSelectAcrossFiles_InFileFirst(t *testing.T) {
	w := newFakeWorkspace()
	w.focus("a.go", 0, 0)
	nav := New(threeFiles(), w)

	res, err := nav.SelectAcrossFiles(context.Background(), marker.ErrorsOnly, Next)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := resultLoc(res); got != loc("a.go", 1, 0) {
		t.Errorf("got %s", got)
	}
	if res.AcrossFiles || len(w.opened) != 0 {
		t.Error("marker in the active file must not open another document")
	}
}

func TestSelectAcrossFiles_Ordering(t *testing.T) {
	tests := []struct {
		name   string
		active marker.DocumentID
		line   int
		dir    Direction
		want   string
	}{
		{"next from middle", "b.go", 9, Next, loc("c.go", 3, 0)},
		{"next wraps workspace", "c.go", 9, Next, loc("a.go", 1, 0)},
		{"prev from middle", "b.go", 0, Prev, loc("a.go", 5, 0)},
		{"prev wraps workspace", "a.go", 0, Prev, loc("c.go", 8, 0)},
		{"next from clean document", "0.go", 0, Next, loc("a.go", 1, 0)},
		{"prev from clean document", "0.go", 0, Prev, loc("b.go", 2, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newFakeWorkspace()
			w.focus(tt.active, tt.line, 0)
			nav := New(threeFiles(), w)

			res, err := nav.SelectAcrossFiles(context.Background(), marker.ErrorsOnly, tt.dir)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := resultLoc(res); got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
			if !res.AcrossFiles || !res.Moved {
				t.Errorf("expected a cross-file move, got %+v", res)
			}
			if len(w.opened) != 1 || w.opened[0] != res.Marker.Document {
				t.Errorf("opened: got %v", w.opened)
			}
			if !w.active.cursor.Equal(res.Marker.Start) {
				t.Errorf("cursor in opened editor: got %v", w.active.cursor)
			}
			last, _ := nav.State().Last()
			if last != res.Marker.Location() {
				t.Errorf("state: got %v, want %v", last, res.Marker.Location())
			}
		})
	}
}

func TestSelectAcrossFiles_WalksWorkspace(t *testing.T) {
	w := newFakeWorkspace()
	w.focus("a.go", 0, 0)
	nav := New(threeFiles(), w)

	want := []string{
		loc("a.go", 1, 0),
		loc("a.go", 5, 0),
		loc("b.go", 2, 0),
		loc("c.go", 3, 0),
		loc("c.go", 8, 0),
		loc("a.go", 1, 0),
	}
	for i, exp := range want {
		res, err := nav.SelectAcrossFiles(context.Background(), marker.ErrorsOnly, Next)
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if got := resultLoc(res); got != exp {
			t.Fatalf("call %d: got %s, want %s", i, got, exp)
		}
	}
}

func TestSelectAcrossFiles_NothingAnywhere(t *testing.T) {
	p := fakeProvider{}
	p.add("a.go", marker.SeverityHint, 1, 0)

	w := newFakeWorkspace()
	w.focus("a.go", 0, 0)
	nav := New(p, w)

	res, err := nav.SelectAcrossFiles(context.Background(), marker.ErrorsAndWarnings, Next)
	if err != nil || res.Found {
		t.Errorf("expected NotFound, got %+v, %v", res, err)
	}
}

func TestSelectAcrossFiles_SingleMarkerWorkspace(t *testing.T) {
	p := fakeProvider{}
	p.add("only.go", marker.SeverityError, 4, 2)

	w := newFakeWorkspace()
	ed := w.focus("only.go", 9, 0)
	nav := New(p, w)
	ctx := context.Background()

	res, _ := nav.SelectAcrossFiles(ctx, marker.ErrorsOnly, Next)
	if got := resultLoc(res); got != loc("only.go", 4, 2) || !res.Moved {
		t.Fatalf("first call: got %s (%+v)", got, res)
	}

	selections := ed.selections
	for i := 0; i < 3; i++ {
		res, _ = nav.SelectAcrossFiles(ctx, marker.ErrorsOnly, Next)
		if !res.Found || res.Moved {
			t.Fatalf("call %d: expected Found without movement, got %+v", i, res)
		}
	}
	if ed.selections != selections {
		t.Error("cursor should not move on repeated calls")
	}
	if len(w.opened) != 0 {
		t.Errorf("single document must not be reopened, opened %v", w.opened)
	}
}

func TestSelectAcrossFiles_NoActiveEditor(t *testing.T) {
	w := newFakeWorkspace()
	nav := New(threeFiles(), w)

	res, err := nav.SelectAcrossFiles(context.Background(), marker.ErrorsOnly, Next)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := resultLoc(res); got != loc("a.go", 1, 0) {
		t.Errorf("got %s, want first document", got)
	}
}

func TestSelectAcrossFiles_PrevNoActiveEditor(t *testing.T) {
	w := newFakeWorkspace()
	nav := New(threeFiles(), w)

	// The missing active index counts as -1, so prev lands on (-1-1+3) mod 3.
	res, err := nav.SelectAcrossFiles(context.Background(), marker.ErrorsOnly, Prev)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := resultLoc(res); got != loc("b.go", 2, 0) {
		t.Errorf("got %s, want %s", got, loc("b.go", 2, 0))
	}
}

func TestSelectAcrossFiles_OpenError(t *testing.T) {
	w := newFakeWorkspace()
	w.focus("b.go", 9, 0)
	w.openErr = errBoom
	pres := &fakePresenter{}
	nav := New(threeFiles(), w, WithPresenter(pres))

	res, err := nav.SelectAcrossFiles(context.Background(), marker.ErrorsOnly, Next)
	if !errors.Is(err, ErrOpenDocument) || !errors.Is(err, errBoom) {
		t.Fatalf("expected wrapped open error, got %v", err)
	}
	if res.Moved {
		t.Error("a failed open cannot move the cursor")
	}
	if last, ok := nav.State().Last(); ok {
		t.Errorf("state should not track a marker the cursor never reached, got %v", last)
	}
	if len(pres.calls) != 0 {
		t.Errorf("nothing should be presented, got %v", pres.calls)
	}
}

func TestSelectAcrossFiles_Presentation(t *testing.T) {
	w := newFakeWorkspace()
	w.focus("b.go", 9, 0)
	pres := &fakePresenter{}
	nav := New(threeFiles(), w, WithPresenter(pres))

	if _, err := nav.SelectAcrossFiles(context.Background(), marker.ErrorsOnly, Prev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// b.go has a marker before line 9, so the in-file path wins.
	if len(pres.calls) != 2 || pres.calls[1] != "marker.prev" {
		t.Fatalf("in-file presentation: got %v", pres.calls)
	}

	pres.calls = nil
	w.focus("b.go", 0, 0)
	nav.State().Reset()
	if _, err := nav.SelectAcrossFiles(context.Background(), marker.ErrorsOnly, Prev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pres.calls) != 2 || pres.calls[0] != "close" || pres.calls[1] != "marker.prevInFiles" {
		t.Errorf("cross-file presentation: got %v", pres.calls)
	}
}

func TestTargetIndex(t *testing.T) {
	tests := []struct {
		dir   Direction
		idx   int
		count int
		want  int
	}{
		{Next, 0, 3, 1},
		{Next, 2, 3, 0},
		{Next, -1, 3, 0},
		{Prev, 0, 3, 2},
		{Prev, 1, 3, 0},
		{Prev, -1, 3, 1},
		{Prev, -1, 2, 0},
		{Next, -1, 1, 0},
		{Prev, -1, 1, 0},
	}

	for _, tt := range tests {
		if got := targetIndex(tt.dir, tt.idx, tt.count); got != tt.want {
			t.Errorf("targetIndex(%v, %d, %d): got %d, want %d", tt.dir, tt.idx, tt.count, got, tt.want)
		}
	}
}

func TestNavigator_ConcurrentCalls(t *testing.T) {
	w := newFakeWorkspace()
	w.focus("a.go", 0, 0)
	nav := New(threeFiles(), w)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				if i%2 == 0 {
					_, _ = nav.SelectInFile(context.Background(), marker.ErrorsOnly, Next, true)
				} else {
					_, _ = nav.SelectAcrossFiles(context.Background(), marker.ErrorsOnly, Prev)
				}
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	last, ok := nav.State().Last()
	if !ok {
		t.Fatal("state should track a marker")
	}
	if !w.active.cursor.Equal(last.Position) || w.active.doc != last.Document {
		t.Errorf("state %v does not match active cursor %s@%v", last, w.active.doc, w.active.cursor)
	}
}
