package cli

import (
	"bytes"
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/locator-finder/pkg/config"
	"github.com/devicelab-dev/locator-finder/pkg/core"
	"github.com/devicelab-dev/locator-finder/pkg/driver/appium"
	"github.com/devicelab-dev/locator-finder/pkg/export"
	"github.com/devicelab-dev/locator-finder/pkg/locator"
	"github.com/devicelab-dev/locator-finder/pkg/logger"
)

var captureCommand = &cli.Command{
	Name:  "capture",
	Usage: "Capture the current screen from Appium: source, elements and screenshot",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:    "device",
			Aliases: []string{"d"},
			Usage:   "Device `NAME` in the devices store (default: config device)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output `DIR`; artifacts go to <DIR>/<timestamp>/",
		},
		&cli.BoolFlag{
			Name:  "no-screenshot",
			Usage: "Skip the screenshot",
		},
	}, anchorFlags...),
	Action: runCapture,
}

// resolveOutputDir returns <base>/<timestamp>.
func resolveOutputDir(base string, now time.Time) string {
	return filepath.Join(base, now.Format("2006-01-02_15-04-05"))
}

func runCapture(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	deviceName := c.String("device")
	if deviceName == "" {
		deviceName = cfg.Device
	}
	if deviceName == "" {
		return fmt.Errorf("no device given: use --device or set device in the config")
	}
	devices, err := config.LoadDevices(cfg.DevicesPath())
	if err != nil {
		return err
	}
	caps, err := devices.Lookup(deviceName)
	if err != nil {
		return err
	}

	base := c.String("output")
	if base == "" {
		base = cfg.OutputPath()
	}
	outDir := resolveOutputDir(base, time.Now())

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	url := appiumURL(c, cfg)
	w := c.App.Writer
	fmt.Fprintf(w, "Connecting to %s (%s)...\n", url, deviceName)
	client := appium.NewClient(url)
	if err := client.Connect(ctx, caps); err != nil {
		return err
	}
	defer func() {
		// The capture context may already be canceled.
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Warn("disconnect failed: %v", err)
		}
	}()

	if width, height := client.ScreenSize(); width > 0 && height > 0 {
		fmt.Fprintf(w, "Screen: %dx%d (%s)\n", width, height, client.Platform())
	}

	attachments, count, err := capture(ctx, client, locatorOptions(c, cfg), !c.Bool("no-screenshot"))
	if err != nil {
		return err
	}
	for _, a := range attachments {
		full, err := core.WriteAttachment(outDir, a)
		if err != nil {
			return err
		}
		logger.Info("wrote %s (%s)", full, a.ContentType)
		fmt.Fprintf(w, "  %s✓%s %s\n", color(colorGreen), color(colorReset), full)
	}
	fmt.Fprintf(w, "Captured %d elements to %s\n", count, outDir)
	return nil
}

func capture(ctx context.Context, client *appium.Client, opts locator.Options, screenshot bool) ([]core.Attachment, int, error) {
	tree, source, err := client.CaptureTree(ctx)
	if err != nil {
		return nil, 0, err
	}
	attachments := []core.Attachment{core.NewSourceAttachment("source.xml", source)}

	var buf bytes.Buffer
	records := export.FromTree(tree, true, opts)
	if err := export.Write(&buf, records); err != nil {
		return nil, 0, err
	}
	attachments = append(attachments, core.NewElementsAttachment("elements.json", buf.Bytes()))

	if screenshot {
		png, err := client.Screenshot(ctx)
		if err != nil {
			return nil, 0, err
		}
		attachments = append(attachments, core.NewScreenshotAttachment("screenshot.png", png))
	}
	return attachments, len(records), nil
}
