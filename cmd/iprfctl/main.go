// Command iprfctl is an interactive front end over the iPRF and TablePRP
// libraries: evaluate forward/inverse queries, build and verify a table
// permutation, and derive keys from a master secret, all from the
// command line.
package main

import (
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/igor53627/plinko-iprf/pkg/iprf"
	"github.com/igor53627/plinko-iprf/pkg/node"
	"github.com/igor53627/plinko-iprf/pkg/prp"
)

// VERSION is injected by build flags.
var VERSION = "SELFBUILD"

func main() {
	if VERSION == "SELFBUILD" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	app := cli.NewApp()
	app.Name = "iprfctl"
	app.Usage = "evaluate and benchmark the Plinko iPRF and TablePRP"
	app.Version = VERSION
	app.Commands = []cli.Command{
		keygenCommand,
		forwardCommand,
		inverseCommand,
		prpCommand,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("iprfctl: %v", err)
	}
}

var keyFlag = cli.StringFlag{
	Name:  "key",
	Usage: "hex-encoded 16-byte key (overrides --secret/--context)",
}

var secretFlag = cli.StringFlag{
	Name:  "secret",
	Usage: "master secret used to derive the key via --context",
}

var contextFlag = cli.StringFlag{
	Name:  "context",
	Value: "iprfctl",
	Usage: "context string for key derivation",
}

// resolveKey returns the 16-byte key for this invocation: --key if
// given, otherwise derived from --secret and --context.
func resolveKey(c *cli.Context) ([]byte, error) {
	if hexKey := c.String("key"); hexKey != "" {
		key, err := hex.DecodeString(hexKey)
		if err != nil {
			return nil, errors.Wrap(err, "decoding --key")
		}
		if len(key) != 16 {
			return nil, errors.Errorf("--key must decode to 16 bytes, got %d", len(key))
		}
		return key, nil
	}

	secret := c.String("secret")
	if secret == "" {
		return nil, errors.New("one of --key or --secret is required")
	}
	derived := node.DeriveKey([]byte(secret), c.String("context"))
	return derived[:], nil
}

var keygenCommand = cli.Command{
	Name:  "keygen",
	Usage: "derive a 16-byte key from a master secret and print it as hex",
	Flags: []cli.Flag{secretFlag, contextFlag},
	Action: func(c *cli.Context) error {
		secret := c.String("secret")
		if secret == "" {
			return errors.New("--secret is required")
		}
		key := node.DeriveKey([]byte(secret), c.String("context"))
		fmt.Println(hex.EncodeToString(key[:]))
		return nil
	},
}

var forwardCommand = cli.Command{
	Name:      "forward",
	Usage:     "evaluate F(x) for an iPRF(key, n, m)",
	ArgsUsage: "<x>",
	Flags: []cli.Flag{
		keyFlag, secretFlag, contextFlag,
		cli.Uint64Flag{Name: "n", Usage: "domain size", Required: true},
		cli.Uint64Flag{Name: "m", Usage: "range size", Required: true},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return errors.New("expected exactly one positional argument: x")
		}
		var x uint64
		if _, err := fmt.Sscanf(c.Args().Get(0), "%d", &x); err != nil {
			return errors.Wrap(err, "parsing x")
		}

		key, err := resolveKey(c)
		if err != nil {
			return err
		}
		f, err := iprf.New(key, c.Uint64("n"), c.Uint64("m"))
		if err != nil {
			return errors.Wrap(err, "constructing iPRF")
		}

		fmt.Println(f.Forward(x))
		return nil
	},
}

var inverseCommand = cli.Command{
	Name:      "inverse",
	Usage:     "evaluate F^-1(y) for an iPRF(key, n, m)",
	ArgsUsage: "<y>",
	Flags: []cli.Flag{
		keyFlag, secretFlag, contextFlag,
		cli.Uint64Flag{Name: "n", Usage: "domain size", Required: true},
		cli.Uint64Flag{Name: "m", Usage: "range size", Required: true},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return errors.New("expected exactly one positional argument: y")
		}
		var y uint64
		if _, err := fmt.Sscanf(c.Args().Get(0), "%d", &y); err != nil {
			return errors.Wrap(err, "parsing y")
		}

		key, err := resolveKey(c)
		if err != nil {
			return err
		}
		f, err := iprf.New(key, c.Uint64("n"), c.Uint64("m"))
		if err != nil {
			return errors.Wrap(err, "constructing iPRF")
		}

		preimage := f.Inverse(y)
		fmt.Printf("%d elements: %v\n", len(preimage), preimage)
		return nil
	},
}

var prpCommand = cli.Command{
	Name:  "prp",
	Usage: "build and query a TablePRP",
	Subcommands: []cli.Command{
		{
			Name:  "build",
			Usage: "build a TablePRP over [0, n) and report construction throughput",
			Flags: []cli.Flag{
				keyFlag, secretFlag, contextFlag,
				cli.Uint64Flag{Name: "n", Usage: "domain size", Required: true},
			},
			Action: func(c *cli.Context) error {
				key, err := resolveKey(c)
				if err != nil {
					return err
				}

				n := c.Uint64("n")
				start := time.Now()
				p, err := prp.New(n, key)
				if err != nil {
					return errors.Wrap(err, "constructing TablePRP")
				}
				elapsed := time.Since(start)

				fmt.Printf("built TablePRP(n=%d) in %v (%.0f entries/sec)\n", n, elapsed, float64(n)/elapsed.Seconds())
				fmt.Printf("bijection ok: %v\n", p.VerifyBijection())
				return nil
			},
		},
		{
			Name:      "forward",
			Usage:     "evaluate a TablePRP forward lookup",
			ArgsUsage: "<x>",
			Flags: []cli.Flag{
				keyFlag, secretFlag, contextFlag,
				cli.Uint64Flag{Name: "n", Usage: "domain size", Required: true},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					return errors.New("expected exactly one positional argument: x")
				}
				var x uint64
				if _, err := fmt.Sscanf(c.Args().Get(0), "%d", &x); err != nil {
					return errors.Wrap(err, "parsing x")
				}

				key, err := resolveKey(c)
				if err != nil {
					return err
				}
				p, err := prp.New(c.Uint64("n"), key)
				if err != nil {
					return errors.Wrap(err, "constructing TablePRP")
				}

				y, err := p.Forward(x)
				if err != nil {
					return errors.Wrap(err, "forward lookup")
				}
				fmt.Println(y)
				return nil
			},
		},
	},
}
