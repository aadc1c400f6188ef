package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"regexp"
	"runtime"

	"github.com/mdouchement/logger"
	"github.com/mdouchement/platinumd"
	listdevices "github.com/mdouchement/platinumd/cmd/platinumd/list_devices"
	showcurves "github.com/mdouchement/platinumd/cmd/platinumd/show_curves"
	"github.com/mdouchement/platinumd/platinum"
	"github.com/spf13/cobra"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	cpath string
	dummy bool
)

func main() {
	cmd := &cobra.Command{
		Use:     "platinumd",
		Short:   "A controller for Corsair Platinum coolers",
		Version: fmt.Sprintf("%s - build %.7s @ %s - %s", version, revision, date, runtime.Version()),
		Args:    cobra.NoArgs,
		RunE:    daemon,
	}
	cmd.Flags().StringVarP(&cpath, "config", "c", "/etc/platinumd/platinumd.yml", "Configfile path")
	cmd.Flags().BoolVarP(&dummy, "dummy", "", false, "Start platinumd with a dummy cooler")
	cmd.AddCommand(showcurves.Command())
	cmd.AddCommand(listdevices.Command())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Version for platinumd",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(cmd.Version)
		},
	})

	if err := cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func daemon(_ *cobra.Command, args []string) error {
	cfg, err := platinumd.Load(cpath)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	h := logger.NewSlogTextHandler(os.Stdout, &logger.SlogTextOption{
		Level:            level,
		ForceColors:      true,
		ForceFormatting:  true,
		PrefixRE:         regexp.MustCompile(`^(\[.*?\])\s`),
		DisableTimestamp: true, // Provided by journalctl
	})
	log := logger.WrapSlogHandler(h)
	ctx := logger.WithLogger(context.Background(), log)

	log.Infof("platinumd version %s", version)

	var cooler platinumd.Cooler = platinumd.NewDummyCooler()
	if !dummy {
		ctrl, err := platinum.OpenAuto()
		if err != nil {
			return fmt.Errorf("platinum: %w", err)
		}
		if cfg.Debug {
			ctrl.SetLogger(log)
		}

		{
			device := ctrl.Config()
			log.Infof("Cooler `%s` - %d fans - %d LEDs", device.Name, device.FanCount, device.LEDCount)

			fw, err := ctrl.FirmwareVersion()
			if err != nil {
				panic(err)
			}
			log.Infof("Firmware - %s", fw)
		}

		defer ctrl.Close()
		cooler = ctrl
	}

	ctx, cancel := context.WithCancel(ctx)

	controler, err := platinumd.New(cfg, cooler, cfg.Polling.Duration)
	if err != nil {
		cancel()
		return err
	}
	controler.Launch(ctx)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	<-ctx.Done()
	cancel()

	log.Info("Gracefully shutdown")
	return nil
}
