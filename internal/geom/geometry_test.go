package geom

import (
	"errors"
	"math"
	"testing"

	"github.com/danmuck/muonseed/internal/testutil/testlog"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewPlaneOrthonormalFrame(t *testing.T) {
	testlog.Start(t)
	p, err := NewPlane(MustDetID(DetMuon, SubDT, 1), r3.Vec{Y: 400}, r3.Vec{Y: 2}, r3.Vec{X: 1, Y: 1}, 100, 50)
	if err != nil {
		t.Fatalf("new plane: %v", err)
	}
	if math.Abs(r3.Norm(p.Normal)-1) > 1e-12 || math.Abs(r3.Norm(p.U)-1) > 1e-12 {
		t.Fatalf("frame not normalized: n=%v u=%v", p.Normal, p.U)
	}
	if math.Abs(r3.Dot(p.U, p.Normal)) > 1e-12 || math.Abs(r3.Dot(p.V, p.Normal)) > 1e-12 {
		t.Fatalf("frame not orthogonal: %+v", p)
	}
	if d := p.SignedDistance(r3.Vec{Y: 410}); math.Abs(d-10) > 1e-12 {
		t.Fatalf("unexpected signed distance %v", d)
	}
	if !p.Contains(r3.Vec{X: 99, Y: 400}) {
		t.Fatalf("expected point inside bounds")
	}
	if p.Contains(r3.Vec{X: 101, Y: 400}) {
		t.Fatalf("expected point outside u bound")
	}
}

func TestNewPlaneRejectsDegenerate(t *testing.T) {
	testlog.Start(t)
	if _, err := NewPlane(1, r3.Vec{}, r3.Vec{}, r3.Vec{X: 1}, 0, 0); !errors.Is(err, ErrDegenerateSurface) {
		t.Fatalf("expected ErrDegenerateSurface, got %v", err)
	}
	if _, err := NewPlane(1, r3.Vec{}, r3.Vec{Z: 1}, r3.Vec{X: 1}, -1, 0); !errors.Is(err, ErrDegenerateSurface) {
		t.Fatalf("expected ErrDegenerateSurface for negative extent, got %v", err)
	}
	p, err := NewPlane(1, r3.Vec{}, r3.Vec{Z: 1}, r3.Vec{Z: 5}, 0, 0)
	if err != nil {
		t.Fatalf("parallel hint should fall back: %v", err)
	}
	if math.Abs(r3.Dot(p.U, p.Normal)) > 1e-12 {
		t.Fatalf("fallback axis not in plane: %v", p.U)
	}
}

func TestGeometryLookupAndDuplicates(t *testing.T) {
	testlog.Start(t)
	a, _ := NewPlane(MustDetID(DetMuon, SubDT, 2), r3.Vec{}, r3.Vec{Z: 1}, r3.Vec{X: 1}, 0, 0)
	b, _ := NewPlane(MustDetID(DetMuon, SubDT, 1), r3.Vec{}, r3.Vec{Z: 1}, r3.Vec{X: 1}, 0, 0)
	g, err := NewGeometry(a, b)
	if err != nil {
		t.Fatalf("new geometry: %v", err)
	}
	if _, err := g.Surface(MustDetID(DetMuon, SubCSC, 1)); !errors.Is(err, ErrUnknownDetector) {
		t.Fatalf("expected ErrUnknownDetector, got %v", err)
	}
	ids := g.IDs()
	if len(ids) != 2 || ids[0] != b.ID || ids[1] != a.ID {
		t.Fatalf("ids not sorted: %v", ids)
	}
	if _, err := NewGeometry(a, a); !errors.Is(err, ErrDuplicateDetector) {
		t.Fatalf("expected ErrDuplicateDetector, got %v", err)
	}
	var nilGeo *Geometry
	if _, err := nilGeo.Surface(a.ID); !errors.Is(err, ErrUnknownDetector) {
		t.Fatalf("nil geometry must miss, got %v", err)
	}
}

func TestDecodeTOML(t *testing.T) {
	testlog.Start(t)
	g, err := DecodeTOML(`
[[surface]]
id = "tracker/tob/1"
origin = [0.0, 110.0, 0.0]
normal = [0.0, 1.0, 0.0]
u_axis = [1.0, 0.0, 0.0]

[[surface]]
id = "muon/dt/1"
origin = [0.0, 420.0, 0.0]
normal = [0.0, 1.0, 0.0]
u_axis = [1.0, 0.0, 0.0]
half_u = 200.0
half_v = 300.0
`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if g.Len() != 2 {
		t.Fatalf("unexpected surface count %d", g.Len())
	}
	p, err := g.Surface(MustDetID(DetMuon, SubDT, 1))
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if p.HalfU != 200 || p.Origin.Y != 420 {
		t.Fatalf("unexpected plane %+v", p)
	}

	if _, err := DecodeTOML("[[surface]]\nid = \"muon/zz/1\"\n"); err == nil {
		t.Fatalf("expected parse failure for bad id")
	}
	if _, err := DecodeTOML("[[surface]]\norigin = [0.0, 0.0, 0.0]\nnormal = [0.0, 0.0, 1.0]\n"); !errors.Is(err, ErrInvalidDetID) {
		t.Fatalf("expected missing id failure, got %v", err)
	}
}
