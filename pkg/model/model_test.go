package model

import (
	"fmt"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/chazu/pizzamaker/pkg/geometry"
	"github.com/chazu/pizzamaker/pkg/kernel"
	"github.com/chazu/pizzamaker/pkg/kernel/sdfx"
	"github.com/chazu/pizzamaker/pkg/scene"
)

// recordingScene wraps a real scene and logs every operation in order.
type recordingScene struct {
	*scene.Scene
	mu  sync.Mutex
	ops []string
}

func newRecordingScene() *recordingScene {
	return &recordingScene{Scene: scene.New()}
}

func (r *recordingScene) Add(n *scene.Node) error {
	r.mu.Lock()
	r.ops = append(r.ops, "add:"+n.Name)
	r.mu.Unlock()
	return r.Scene.Add(n)
}

func (r *recordingScene) Remove(n *scene.Node) bool {
	r.mu.Lock()
	r.ops = append(r.ops, "remove:"+n.Name)
	r.mu.Unlock()
	return r.Scene.Remove(n)
}

func (r *recordingScene) reset() {
	r.mu.Lock()
	r.ops = nil
	r.mu.Unlock()
}

func newTestModel(sc Scene, opts ...Option) *Model {
	m, err := New(sdfx.New(sdfx.WithMeshCells(40)), sc, opts...)
	if err != nil {
		panic(fmt.Sprintf("model.New: %v", err))
	}
	return m
}

func TestNew(t *testing.T) {
	Convey("Given a fresh model", t, func() {
		sc := newRecordingScene()
		m := newTestModel(sc)

		Convey("It starts from the default parameters", func() {
			So(m.Params(), ShouldResemble, geometry.DefaultParams())
		})

		Convey("It publishes body and crust to the scene", func() {
			So(sc.ops, ShouldResemble, []string{"add:body", "add:crust"})
			So(sc.Len(), ShouldEqual, 2)
			So(sc.Contains(m.Solids().Body), ShouldBeTrue)
			So(sc.Contains(m.Solids().Crust), ShouldBeTrue)
		})

		Convey("Both parts carry their colors", func() {
			So(m.Solids().Body.Color, ShouldEqual, BodyColor)
			So(m.Solids().Crust.Color, ShouldEqual, CrustColor)
		})

		Convey("Both solids are non-empty", func() {
			So(kernel.IsEmpty(m.Solids().Body.Solid), ShouldBeFalse)
			So(kernel.IsEmpty(m.Solids().Crust.Solid), ShouldBeFalse)
		})
	})

	Convey("Given initial parameters", t, func() {
		p := geometry.DefaultParams()
		p.Sides = 12
		m := newTestModel(scene.New(), WithParams(p))

		Convey("The model starts from them", func() {
			So(m.Params().Sides, ShouldEqual, 12)
		})
	})
}

func TestSetters(t *testing.T) {
	Convey("Given a model", t, func() {
		sc := newRecordingScene()
		m := newTestModel(sc)
		first := m.Solids()
		sc.reset()

		Convey("Changing a parameter replaces both nodes, removes first", func() {
			So(m.SetSides(6), ShouldBeNil)
			So(sc.ops, ShouldResemble, []string{
				"remove:body", "remove:crust", "add:body", "add:crust",
			})
			So(sc.Len(), ShouldEqual, 2)
			So(sc.Contains(first.Body), ShouldBeFalse)
			So(sc.Contains(first.Crust), ShouldBeFalse)
			So(m.Solids().Body, ShouldNotEqual, first.Body)
		})

		Convey("Each setter updates only its own field", func() {
			So(m.SetSides(10), ShouldBeNil)
			So(m.SetExtrusionHeight(0.5), ShouldBeNil)
			So(m.SetCrustThickness(0.3), ShouldBeNil)
			So(m.SetCrustProportion(0.4), ShouldBeNil)
			So(m.SetNumSlices(3), ShouldBeNil)

			So(m.Params(), ShouldResemble, geometry.Params{
				Sides:           10,
				ExtrusionHeight: 0.5,
				CrustThickness:  0.3,
				CrustProportion: 0.4,
				NumSlices:       3,
			})
			So(m.Solids().Generation, ShouldEqual, first.Generation+5)
		})

		Convey("SetParams rebuilds once", func() {
			p := geometry.DefaultParams()
			p.NumSlices = 2
			So(m.SetParams(p), ShouldBeNil)
			So(len(sc.ops), ShouldEqual, 4)
			So(m.Params(), ShouldResemble, p)
		})

		Convey("Setting the same value still rebuilds", func() {
			So(m.SetSides(first.Params.Sides), ShouldBeNil)
			So(m.Solids(), ShouldNotEqual, first)
			So(len(sc.ops), ShouldEqual, 4)
		})

		Convey("The old snapshot is never modified", func() {
			So(m.SetExtrusionHeight(1.5), ShouldBeNil)
			So(first.Params, ShouldResemble, geometry.DefaultParams())
			So(sc.Contains(first.Body), ShouldBeFalse)
		})
	})
}

func TestEmptyParts(t *testing.T) {
	Convey("Given a model", t, func() {
		sc := scene.New()
		m := newTestModel(sc)

		Convey("Zero crust keeps an empty crust node in the scene", func() {
			So(m.SetCrustProportion(0), ShouldBeNil)
			So(sc.Len(), ShouldEqual, 2)
			So(kernel.IsEmpty(m.Solids().Crust.Solid), ShouldBeTrue)
			So(kernel.IsEmpty(m.Solids().Body.Solid), ShouldBeFalse)
		})

		Convey("All crust leaves the body empty", func() {
			So(m.SetCrustProportion(1), ShouldBeNil)
			So(kernel.IsEmpty(m.Solids().Body.Solid), ShouldBeTrue)
			So(kernel.IsEmpty(m.Solids().Crust.Solid), ShouldBeFalse)
		})

		Convey("Empty parts can be replaced again", func() {
			So(m.SetCrustProportion(0), ShouldBeNil)
			So(m.SetCrustProportion(0), ShouldBeNil)
			So(sc.Len(), ShouldEqual, 2)
		})
	})
}

func TestOnRebuild(t *testing.T) {
	Convey("Given an observer", t, func() {
		m := newTestModel(scene.New())
		var seen []*Solids
		m.OnRebuild(func(s *Solids) { seen = append(seen, s) })

		Convey("It receives every new snapshot", func() {
			So(m.SetSides(5), ShouldBeNil)
			So(m.SetNumSlices(4), ShouldBeNil)
			So(len(seen), ShouldEqual, 2)
			So(seen[1], ShouldEqual, m.Solids())
			So(seen[0].Params.Sides, ShouldEqual, 5)
			So(seen[0].Params.NumSlices, ShouldEqual, geometry.WholeSlices)
		})

		Convey("It may read the model", func() {
			var sides int
			m.OnRebuild(func(*Solids) { sides = m.Params().Sides })
			So(m.SetSides(7), ShouldBeNil)
			So(sides, ShouldEqual, 7)
		})
	})
}

func TestConcurrentAccess(t *testing.T) {
	Convey("Given concurrent writers and readers", t, func() {
		sc := scene.New()
		m := newTestModel(sc)

		var wg sync.WaitGroup
		stop := make(chan struct{})
		mismatch := make(chan string, 1)
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for {
					select {
					case <-stop:
						return
					default:
					}
					s := m.Solids()
					if s.Body.Name != geometry.BodyName || s.Crust.Name != geometry.CrustName {
						select {
						case mismatch <- fmt.Sprintf("bad snapshot %d", s.Generation):
						default:
						}
					}
				}
			}()
		}

		var writers sync.WaitGroup
		for i := 0; i < 3; i++ {
			writers.Add(1)
			go func(base int) {
				defer writers.Done()
				for j := 0; j < 5; j++ {
					_ = m.SetSides(3 + base + j)
				}
			}(i)
		}
		writers.Wait()
		close(stop)
		wg.Wait()

		Convey("The scene holds exactly the current pair", func() {
			So(sc.Len(), ShouldEqual, 2)
			So(sc.Contains(m.Solids().Body), ShouldBeTrue)
			So(sc.Contains(m.Solids().Crust), ShouldBeTrue)
			So(m.Solids().Generation, ShouldEqual, uint64(15))
		})

		Convey("Readers never saw a broken snapshot", func() {
			So(len(mismatch), ShouldEqual, 0)
		})
	})
}
