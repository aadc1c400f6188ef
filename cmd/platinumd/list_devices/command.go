package listdevices

import (
	"fmt"

	"github.com/mdouchement/platinumd/platinum"
	"github.com/spf13/cobra"
	"github.com/sstallion/go-hid"
)

func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "list-devices",
		Short: "Show the supported coolers present on the bus",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			if err := hid.Init(); err != nil {
				return fmt.Errorf("hid: %w", err)
			}
			defer hid.Exit()

			var n int
			err := hid.Enumerate(platinum.CorsairVendorID, 0, func(info *hid.DeviceInfo) error {
				device, ok := platinum.DeviceConfigs[info.ProductID]
				if !ok {
					return nil
				}

				n++
				fmt.Printf("%s   serial %q   %s\n", device.Name, info.SerialNbr, info.Path)
				return nil
			})
			if err != nil {
				return fmt.Errorf("hid: %w", err)
			}

			if n == 0 {
				fmt.Println("No supported cooler found")
			}

			return nil
		},
	}
}
