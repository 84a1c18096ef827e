package scene

import (
	"testing"

	lin "github.com/xlab/linmath"
)

func TestSceneGroupsRenderablesByPass(t *testing.T) {
	var identity lin.Mat4x4
	identity.Identity()

	s := New(nil)
	s.Add("opaque", 1, 1, identity)
	s.Add("opaque", 2, 1, identity)
	s.Add("glow", 3, 2, identity)

	renderables := s.Renderables()
	if got := len(renderables["opaque"]); got != 2 {
		t.Fatalf("len(renderables[opaque])\nhave %d\nwant 2", got)
	}
	if got := len(renderables["glow"]); got != 1 {
		t.Fatalf("len(renderables[glow])\nhave %d\nwant 1", got)
	}
	if got := len(renderables["shadow"]); got != 0 {
		t.Fatalf("len(renderables[shadow])\nhave %d\nwant 0 (pass with no entries)", got)
	}
}

func TestSceneAddAssignsIncreasingTransformIndices(t *testing.T) {
	var a, b lin.Mat4x4
	a.Identity()
	b.Identity()

	s := New(nil)
	r1 := s.Add("main", 0, 0, a)
	r2 := s.Add("main", 0, 0, b)

	if r1.Transform != 0 || r2.Transform != 1 {
		t.Fatalf("Transform indices\nhave %d,%d\nwant 0,1", r1.Transform, r2.Transform)
	}
}

func TestSceneClearDropsAllPasses(t *testing.T) {
	var identity lin.Mat4x4
	identity.Identity()

	s := New(nil)
	s.Add("opaque", 0, 0, identity)
	s.Add("glow", 0, 0, identity)
	s.Clear()

	renderables := s.Renderables()
	if len(renderables) != 0 {
		t.Fatalf("Renderables after Clear\nhave %d passes\nwant 0", len(renderables))
	}
}
