// Command forkchoicelab replays a JSON-described sequence of blocks,
// attestations, and head queries against a single protoarray.ForkChoice,
// printing the resulting head after each "head" operation. It exists to
// make the engine's behavior inspectable from the command line without
// wiring it into a full beacon chain client.
package main

import (
	"fmt"
	"os"

	"github.com/prysmaticlabs/proto-lmd-forkchoice/beacon-chain/forkchoice/protoarray"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "forkchoicelab",
		Usage: "replay a proto-array fork choice script",
		Commands: []*cli.Command{
			runCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("forkchoicelab exited with an error")
	}
}

var runCommand = &cli.Command{
	Name:  "run",
	Usage: "replay a script file against a fresh engine",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "script",
			Usage:    "path to a JSON script file",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "dot",
			Usage: "optional path to write a Graphviz rendering of the final tree",
		},
	},
	Action: func(c *cli.Context) error {
		s, err := loadScript(c.String("script"))
		if err != nil {
			return err
		}

		genesisRoot := seedToRoot(s.GenesisSeed)
		engine := protoarray.New(epoch(s.JustifiedEpoch), epoch(s.FinalizedEpoch), genesisRoot)

		log := logrus.WithField("engine", engine.ID())

		for i, op := range s.Operations {
			ctx := c.Context
			switch op.Kind {
			case "block":
				root := seedToRoot(op.Seed)
				parent := seedToRoot(op.ParentSeed)
				if op.ParentSeed == "" {
					parent = genesisRoot
				}
				if err := engine.ProcessBlock(ctx, slot(op.Slot), root, parent, epoch(op.JustifiedEpoch), epoch(op.FinalizedEpoch)); err != nil {
					return fmt.Errorf("operation %d (block): %w", i, err)
				}
				log.WithField("seed", op.Seed).Info("processed block")

			case "attestation":
				engine.ProcessAttestation(ctx, op.ValidatorIndices, seedToRoot(op.Seed), epoch(op.TargetEpoch))
				log.WithField("validators", op.ValidatorIndices).Info("processed attestation")

			case "head":
				head, err := engine.Head(ctx, engine.JustifiedEpoch(), genesisRoot, op.Balances, engine.FinalizedEpoch())
				if err != nil {
					return fmt.Errorf("operation %d (head): %w", i, err)
				}
				fmt.Printf("head after operation %d: %x\n", i, head)

			default:
				return fmt.Errorf("operation %d: unknown kind %q", i, op.Kind)
			}
		}

		if dotPath := c.String("dot"); dotPath != "" {
			g, err := engine.Dot()
			if err != nil {
				return fmt.Errorf("could not render dot graph: %w", err)
			}
			if err := os.WriteFile(dotPath, []byte(g.String()), 0o644); err != nil {
				return fmt.Errorf("could not write dot file: %w", err)
			}
			log.WithField("path", dotPath).Info("wrote dot graph")
		}

		return nil
	},
}
