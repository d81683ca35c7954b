package main

import (
	"context"
	"os"

	"github.com/pkg/errors"

	"github.com/dudu/glasscam/internal/app"
	"github.com/dudu/glasscam/internal/camera"
	"github.com/dudu/glasscam/internal/config"
	"github.com/dudu/glasscam/internal/detector"
	"github.com/dudu/glasscam/internal/device"
	"github.com/dudu/glasscam/internal/log"
	"github.com/dudu/glasscam/internal/overlay"
	"github.com/dudu/glasscam/internal/pipeline"
	"github.com/dudu/glasscam/internal/ui"
)

func run(ctx context.Context, cfg config.Config) error {
	log.Init(log.Options{Level: cfg.LogLevel, File: cfg.LogFile})

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = device.DefaultUserAgent()
	}
	mobile := device.IsMobile(userAgent)
	viewport := camera.Size{Width: cfg.Width, Height: cfg.Height}

	log.Info(log.Fields{"viewport": viewport.String(), "mobile": mobile, "probe": cfg.Probe}, "glasscam starting")

	renderer, err := overlay.NewRenderer(cfg.OverlayImage, cfg.MirrorCompensation, cfg.DebugMarkers)
	if err != nil {
		return err
	}
	defer renderer.Close()

	lister, opener := sources(cfg, viewport)

	spinner := ui.NewSpinner(os.Stderr)
	defer spinner.Stop()

	var (
		view   app.View
		window *ui.Window
	)
	if cfg.Preview {
		window = ui.NewWindow("glasscam", viewport, spinner, cfg.ShowTiming)
		defer window.Close()
		view = window
	} else {
		view = ui.NewHeadless(spinner)
	}

	a := app.New(app.Options{
		Viewport:       viewport,
		Mobile:         mobile,
		ProbeTimeout:   cfg.ProbeTimeout,
		ResizeDebounce: cfg.ResizeDebounce,
		StallTimeout:   cfg.StallTimeout,
	}, app.Deps{
		Lister:    lister,
		Opener:    opener,
		LoadModel: modelLoader(cfg),
		Renderer:  renderer,
		View:      view,
	})

	runErr := a.Run(ctx)
	if runErr != nil && window != nil {
		// keep the error screen up until the user dismisses it
		window.WaitForKey(ctx)
	}
	log.Info(nil, "glasscam stopped")
	return runErr
}

func sources(cfg config.Config, viewport camera.Size) (device.Lister, camera.Opener) {
	if cfg.FakeCamera {
		fakes := device.ListerFunc(func(context.Context) ([]device.Device, error) {
			return []device.Device{
				{ID: "fake-user", Label: "Synthetic user camera", Kind: device.KindVideoInput},
				{ID: "fake-environment", Label: "Synthetic environment camera", Kind: device.KindVideoInput},
			}, nil
		})
		return fakes, &camera.FakeOpener{DefaultSize: viewport}
	}

	var lister device.Lister = device.MediaDevicesLister{}
	if cfg.Probe == config.ProbeV4L2 {
		lister = device.V4L2Lister{}
	}
	return lister, camera.DeviceOpener{
		UserDevice:        cfg.UserCamera,
		EnvironmentDevice: cfg.EnvironmentCamera,
		TargetFPS:         cfg.TargetFPS,
	}
}

func modelLoader(cfg config.Config) app.ModelLoader {
	return func(ctx context.Context, multiplier float64) (pipeline.PoseEstimator, error) {
		mc := detector.DefaultModelConfig(cfg.ModelDir, multiplier)
		mc.ORTLibrary = cfg.ORTLibrary
		net, err := detector.LoadPoseNet(ctx, mc)
		if err != nil {
			return nil, errors.WithMessage(err, "load pose model")
		}
		log.Info(log.Fields{"model": net.Path()}, "pose model loaded")
		return net, nil
	}
}
