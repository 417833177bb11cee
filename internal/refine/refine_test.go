package refine

import (
	"io"
	"log/slog"
	"testing"

	"github.com/golang/geo/r2"

	"github.com/hajimehoshi/go-brepmesh/geom"
	"github.com/hajimehoshi/go-brepmesh/internal/delaun"
	"github.com/hajimehoshi/go-brepmesh/internal/meshdata"
	"github.com/hajimehoshi/go-brepmesh/internal/rangesplit"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestPriorityQueue(t *testing.T) {
	q := pqNew()
	for _, d := range []float64{0.1, 0.5, 0.3, 0.5, 0.2} {
		pqInsert(q, &candidate{deviation: d})
	}
	var got []float64
	var seqs []int
	for !pqIsEmpty(q) {
		c := pqExtractMax(q)
		got = append(got, c.deviation)
		seqs = append(seqs, c.seq)
	}
	want := []float64{0.5, 0.5, 0.3, 0.2, 0.1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if seqs[0] != 1 || seqs[1] != 3 {
		t.Errorf("ties popped out of insertion order: %v", seqs)
	}
	if pqExtractMax(q) != nil {
		t.Errorf("empty queue returned a candidate")
	}
}

func TestForSurface(t *testing.T) {
	for _, c := range []struct {
		kind       geom.SurfaceKind
		pre, ctrl  bool
		splitterOf func(rangesplit.Splitter) bool
	}{
		{geom.KindPlane, false, false, func(s rangesplit.Splitter) bool { _, ok := s.(*rangesplit.Default); return ok }},
		{geom.KindCylinder, true, true, func(s rangesplit.Splitter) bool { _, ok := s.(*rangesplit.Cylinder); return ok }},
		{geom.KindSphere, true, true, func(s rangesplit.Splitter) bool { _, ok := s.(*rangesplit.Sphere); return ok }},
		{geom.KindTorus, false, true, func(s rangesplit.Splitter) bool { _, ok := s.(*rangesplit.UVParam); return ok }},
		{geom.KindOther, false, true, func(s rangesplit.Splitter) bool { _, ok := s.(*rangesplit.UVParam); return ok }},
	} {
		a := ForSurface(c.kind)
		if a.PreProcess != c.pre || a.ControlDeflection != c.ctrl || !c.splitterOf(a.Splitter) {
			t.Errorf("%v: got %T, pre %v, control %v", c.kind, a.Splitter, a.PreProcess, a.ControlDeflection)
		}
	}
	if ForSurface(geom.KindSphere) == ForSurface(geom.KindSphere) {
		t.Errorf("algorithms are shared between calls")
	}
}

// unitSquare triangulates the unit square of s's domain with a.
func unitSquare(t *testing.T, a *Algorithm, s geom.Surface, p Params) (*Session, *delaun.Builder) {
	t.Helper()
	corners := []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	a.Reset(s, p)
	for _, uv := range corners {
		a.Splitter.AddPoint(uv)
	}
	a.Splitter.AdjustRange()

	m := meshdata.New(1e-9)
	ids := make([]int, len(corners))
	pos := make([]r2.Point, len(corners))
	for i, uv := range corners {
		pos[i] = a.Splitter.Scale(uv)
		ids[i] = m.RegisterNode(pos[i], uv, s.Value(uv.X, uv.Y), meshdata.NodeBoundary, true)
	}
	sess := &Session{
		Surface:    s,
		Mesh:       m,
		Classifier: meshdata.NewClassifier([][]r2.Point{pos}, m.Tolerance()),
		Params:     p,
		Log:        discard,
	}
	cols, rows := a.CellsCount(len(ids))
	b := delaun.New(m, cols, rows, discard)
	if err := b.LoadBoundary([][]int{ids}); err != nil {
		t.Fatal(err)
	}
	if err := b.Build(a.InitDataStructure(sess)); err != nil {
		t.Fatal(err)
	}
	return sess, b
}

func paraboloid() geom.Surface {
	return geom.NewParaboloid(geom.StandardFrame, 1, r2.RectFromPoints(r2.Point{}, r2.Point{X: 1, Y: 1}))
}

func TestControlPasses(t *testing.T) {
	p := Params{Deflection: 1e-3, Angle: 0.5, MinSize: 1e-5, ControlDeflection: true}

	a := ForSurface(geom.KindOther)
	s, b := unitSquare(t, a, paraboloid(), p)
	res, err := a.PostProcessMesh(s, b, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Converged || res.Inserted == 0 {
		t.Errorf("default passes: converged %v, inserted %d", res.Converged, res.Inserted)
	}
	if err := s.Mesh.CheckMesh(); err != nil {
		t.Error(err)
	}

	// One pass cannot bring two triangles within 1e-3 of the surface.
	p.MaxPasses = 1
	a = &Algorithm{Splitter: &rangesplit.Default{}, ControlDeflection: true}
	s, b = unitSquare(t, a, paraboloid(), p)
	res, err = a.PostProcessMesh(s, b, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Converged || res.Passes != 1 {
		t.Errorf("one pass: converged %v, passes %d", res.Converged, res.Passes)
	}
}

func TestMeasureWithoutControl(t *testing.T) {
	p := Params{Deflection: 1e-3, Angle: 0.5, MinSize: 1e-5}

	a := &Algorithm{Splitter: &rangesplit.Default{}, ControlDeflection: true}
	s, b := unitSquare(t, a, paraboloid(), p)
	res, err := a.PostProcessMesh(s, b, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Converged || res.Inserted != 0 {
		t.Errorf("curved face: converged %v, inserted %d", res.Converged, res.Inserted)
	}

	plane := geom.NewPlane(geom.StandardFrame, r2.RectFromPoints(r2.Point{}, r2.Point{X: 1, Y: 1}))
	a = ForSurface(geom.KindPlane)
	s, b = unitSquare(t, a, plane, p)
	res, err = a.PostProcessMesh(s, b, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Converged {
		t.Errorf("plane reported beyond the deflection")
	}
}
