package ecs

import "testing"

func TestEntityPoolCreateDestroy(t *testing.T) {
	p := NewEntityPool()

	a := p.Create()
	b := p.Create()
	if a == b {
		t.Fatal("expected distinct entity ids")
	}
	if !p.Alive(a) || !p.Alive(b) {
		t.Fatal("expected fresh entities alive")
	}

	p.Destroy(a)
	if p.Alive(a) {
		t.Error("expected destroyed entity dead")
	}

	// Index is recycled with a bumped generation; the stale id stays dead.
	c := p.Create()
	if c.Index() != a.Index() {
		t.Errorf("expected index %d recycled, got %d", a.Index(), c.Index())
	}
	if c.Generation() == a.Generation() {
		t.Error("expected generation bump on recycle")
	}
	if p.Alive(a) {
		t.Error("stale id must stay dead after recycle")
	}
	if !p.Alive(c) {
		t.Error("recycled id must be alive")
	}
}

func TestEntityPoolDestroyStale(t *testing.T) {
	p := NewEntityPool()
	a := p.Create()
	p.Destroy(a)
	p.Destroy(a) // double destroy is a no-op
	b := p.Create()
	if !p.Alive(b) {
		t.Error("double destroy must not kill the recycled entity")
	}
}

func TestEntityPoolCreateBatch(t *testing.T) {
	p := NewEntityPool()

	a := p.Create()
	b := p.Create()
	p.Destroy(a)
	p.Destroy(b)

	ids := p.CreateBatch(5)
	if len(ids) != 5 {
		t.Fatalf("expected 5 ids, got %d", len(ids))
	}
	seen := make(map[EntityID]bool)
	recycled := 0
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %v in batch", id)
		}
		seen[id] = true
		if !p.Alive(id) {
			t.Errorf("batch id %v not alive", id)
		}
		if id.Index() == a.Index() || id.Index() == b.Index() {
			recycled++
		}
	}
	if recycled != 2 {
		t.Errorf("expected 2 recycled indices in batch, got %d", recycled)
	}
	if p.Live() != 5 {
		t.Errorf("expected 5 live entities, got %d", p.Live())
	}
}
