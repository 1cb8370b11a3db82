package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/mogaika/scenegraph/config"
	"github.com/mogaika/scenegraph/r3d"
	"github.com/mogaika/scenegraph/transform"
)

func main() {
	var cfgpath string
	var depth, steps int
	var spin float64
	var dump bool
	flag.StringVar(&cfgpath, "config", "", "Path to yaml config file")
	flag.IntVar(&depth, "depth", 4, "Number of transforms in the chain")
	flag.IntVar(&steps, "steps", 8, "Number of root rotation steps")
	flag.Float64Var(&spin, "spin", 15, "Root rotation per step in degrees")
	flag.BoolVar(&dump, "dump", false, "Dump the chain tip after the last step")
	flag.Parse()

	if depth < 1 || steps < 0 {
		flag.PrintDefaults()
		return
	}

	c := config.Default()
	if cfgpath != "" {
		var err error
		if c, err = config.Load(cfgpath); err != nil {
			log.Fatal(err)
		}
	}
	if err := config.Set(c); err != nil {
		log.Fatal(err)
	}

	logger, err := config.NewLogger(c)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	r := transform.NewRegistry(transform.WithLogger(logger))

	var root, tip *transform.Transform
	for i := 0; i < depth; i++ {
		t := transform.NewEuler(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, mgl32.DegToRad(10)}, mgl32.XYZ, mgl32.Vec3{1, 1, 1})
		t.Name = fmt.Sprintf("link%d", i)
		r.Add(t)
		if tip == nil {
			root = t
		} else if _, err := t.SetParent(tip, false); err != nil {
			log.Fatal(err)
		}
		tip = t
	}

	cam := transform.New()
	cam.Name = "camera"
	r.Add(cam)
	r3d.NewOrbitController(tip.WorldPosition(), 10, 20, 0).Apply(cam)

	follow := r3d.Follow(cam, tip, cam.WorldPosition().Sub(tip.WorldPosition()))
	defer follow.Stop()
	view := r3d.NewTransformCamera(cam)

	step := mgl32.QuatRotate(mgl32.DegToRad(float32(spin)), mgl32.Vec3{0, 1, 0})
	for i := 0; i < steps; i++ {
		root.Rotate(step)
		logger.Info("step",
			zap.Int("step", i),
			zap.Reflect("tip", tip.WorldPosition()),
			zap.Reflect("camera", cam.WorldPosition()),
			zap.Reflect("view_translation", view.GetViewMatrix().Col(3).Vec3()))
	}

	if dump {
		fmt.Println(tip.Dump())
	}
}
