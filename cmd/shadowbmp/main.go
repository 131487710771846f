package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli"

	"github.com/corvid/shadowbmp/pipeline"
)

// VERSION is populated via build flags when packaging official binaries.
var VERSION = "SELFBUILD"

func main() {
	log.SetFlags(0)

	app := cli.NewApp()
	app.Name = "shadowbmp"
	app.Usage = "(k, n) visual secret sharing for 8-bit grayscale BMP images"
	app.Version = VERSION
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "distribute, d",
			Usage: "split --secret into shadows hidden in the BMPs found in --dir",
		},
		cli.BoolFlag{
			Name:  "recover, r",
			Usage: "reconstruct --secret from the shadows found in --dir",
		},
		cli.StringFlag{
			Name:  "secret",
			Usage: "input secret BMP (distribute) or output secret BMP (recover)",
		},
		cli.IntFlag{
			Name:  "threshold, k",
			Value: 2,
			Usage: "number of shadows required to reconstruct the secret, 2 <= k <= 250",
		},
		cli.IntFlag{
			Name:  "shadows, n",
			Usage: "number of shadows to create (distribute only); defaults to the number of regular files in --dir",
		},
		cli.IntFlag{
			Name:  "width, w",
			Usage: "original secret width in pixels (recover only)",
		},
		cli.IntFlag{
			Name:  "height, H",
			Usage: "original secret height in pixels (recover only)",
		},
		cli.IntFlag{
			Name:  "seed, s",
			Value: 691,
			Usage: "PRNG seed used to key the optional permutation step (distribute only)",
		},
		cli.BoolFlag{
			Name:  "permute",
			Usage: "shuffle secret pixels before splitting, and unshuffle after recovery",
		},
		cli.StringFlag{
			Name:  "dir",
			Value: "./",
			Usage: "carrier/shadow directory",
		},
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "log pipeline progress to stderr",
		},
	}

	app.Action = func(c *cli.Context) error {
		log.SetOutput(os.Stderr)

		distribute := c.Bool("distribute")
		recover_ := c.Bool("recover")

		switch {
		case distribute && recover_:
			return fmt.Errorf("only one of --distribute or --recover may be given")
		case distribute:
			return runDistribute(c)
		case recover_:
			return runRecover(c)
		default:
			return cli.ShowAppHelp(c)
		}
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runDistribute(c *cli.Context) error {
	secret := c.String("secret")
	if secret == "" {
		return fmt.Errorf("--secret is required")
	}

	n := c.Int("shadows")
	if n == 0 {
		count, err := pipeline.CountFiles(c.String("dir"))
		if err != nil {
			return err
		}
		n = count
	}

	cfg := pipeline.DistributeConfig{
		SecretPath: secret,
		Dir:        c.String("dir"),
		K:          c.Int("threshold"),
		N:          n,
		Seed:       uint16(c.Int("seed")),
		Permute:    c.Bool("permute"),
		Verbose:    c.Bool("verbose"),
	}

	if err := pipeline.Distribute(cfg); err != nil {
		return fmt.Errorf("distribute: %w", err)
	}
	return nil
}

func runRecover(c *cli.Context) error {
	secret := c.String("secret")
	if secret == "" {
		return fmt.Errorf("--secret is required")
	}

	cfg := pipeline.RecoverConfig{
		SecretPath: secret,
		Dir:        c.String("dir"),
		K:          c.Int("threshold"),
		Width:      uint32(c.Int("width")),
		Height:     int32(c.Int("height")),
		Permute:    c.Bool("permute"),
		Verbose:    c.Bool("verbose"),
	}

	if err := pipeline.Recover(cfg); err != nil {
		return fmt.Errorf("recover: %w", err)
	}
	return nil
}
