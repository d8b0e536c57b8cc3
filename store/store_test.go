package store

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/skinpack/anim"
)

func openTestStore(t *testing.T) *Store {
	dir, err := ioutil.TempDir("", "skinpack-store")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	s, err := Open(filepath.Join(dir, "stage.res"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testAnimation(name string, frames int) *anim.Animation {
	c := &anim.Channel{Bone: "Root"}
	for i := 0; i < frames; i++ {
		c.Keyframes = append(c.Keyframes, anim.Keyframe{
			Transform: mgl32.Translate3D(float32(i), 0, 0),
			Time:      int64(i) * anim.TICKS_PER_60FPS,
		})
	}
	return &anim.Animation{Name: name, Channels: []*anim.Channel{c}}
}

func TestPutAndGet(t *testing.T) {
	s := openTestStore(t)
	set := anim.NewSet()
	set.Add(testAnimation("Walk", 3))
	set.Add(testAnimation("Idle", 1))
	if err := s.PutSet(set); err != nil {
		t.Fatalf("PutSet: %v", err)
	}
	if err := s.PutAnimation(testAnimation("Attack", 5)); err != nil {
		t.Fatalf("PutAnimation: %v", err)
	}

	names, err := s.Names()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(names, []string{"Attack", "Idle", "Walk"}) {
		t.Errorf("Names()=%v; expected [Attack Idle Walk]", names)
	}

	walk, err := s.Animation("Walk")
	if err != nil {
		t.Fatalf("Animation(Walk): %v", err)
	}
	if !reflect.DeepEqual(walk, testAnimation("Walk", 3)) {
		t.Errorf("Animation(Walk) differs from stored data")
	}

	all, err := s.Set()
	if err != nil || all.Len() != 3 {
		t.Errorf("Set()=%v,%v; expected 3 animations", all, err)
	}
}

func TestNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Animation("Missing"); errors.Cause(err) != ErrNotFound {
		t.Errorf("Animation(Missing) err=%v; expected ErrNotFound", err)
	}
	if err := s.Delete("Missing"); errors.Cause(err) != ErrNotFound {
		t.Errorf("Delete(Missing) err=%v; expected ErrNotFound", err)
	}

	s.PutAnimation(testAnimation("Walk", 2))
	if err := s.Delete("Walk"); err != nil {
		t.Errorf("Delete(Walk)=%v", err)
	}
	if _, err := s.Animation("Walk"); errors.Cause(err) != ErrNotFound {
		t.Errorf("Animation after Delete err=%v; expected ErrNotFound", err)
	}
}

func TestTags(t *testing.T) {
	s := openTestStore(t)
	if err := s.PutTag("locomotion", []string{"Walk", "Run"}); err != nil {
		t.Fatalf("PutTag: %v", err)
	}
	names, err := s.Tag("locomotion")
	if err != nil || !reflect.DeepEqual(names, []string{"Walk", "Run"}) {
		t.Errorf("Tag(locomotion)=%v,%v", names, err)
	}
	if _, err := s.Tag("combat"); errors.Cause(err) != ErrNotFound {
		t.Errorf("Tag(combat) err=%v; expected ErrNotFound", err)
	}
}

func TestClosedStore(t *testing.T) {
	dir, err := ioutil.TempDir("", "skinpack-store")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	s, err := Open(filepath.Join(dir, "closed.res"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.PutAnimation(testAnimation("Walk", 2)); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	_, err = s.Animation("Walk")
	if err == nil || errors.Cause(err) == ErrNotFound {
		t.Errorf("Animation on closed store err=%v; expected a database error", err)
	}
}
