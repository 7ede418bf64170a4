package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/luca-patrignani/byzantine-general/order"
)

const (
	outKey  = "out"
	nameKey = "name"
)

func main() {
	if err := Command().Execute(); err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}
}

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:           "keygen",
		Short:         "Generates the key pair a General signs its orders with",
		Args:          cobra.NoArgs,
		RunE:          runFunc,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	c.Flags().String(outKey, ".", "Directory the key files are written to")
	c.Flags().String(nameKey, order.DefaultSenderID, "Base name of the key files")
	return c
}

func runFunc(c *cobra.Command, _ []string) error {
	dir, err := c.Flags().GetString(outKey)
	if err != nil {
		return err
	}
	name, err := c.Flags().GetString(nameKey)
	if err != nil {
		return err
	}
	privPath, pubPath, err := generate(dir, name)
	if err != nil {
		return err
	}
	pterm.Success.Printfln("private key written to %s", privPath)
	pterm.Success.Printfln("public key written to %s", pubPath)
	return nil
}

// generate writes <name>.key and <name>.pub into dir, then checks that the
// files read back sign and verify an order.
func generate(dir, name string) (privPath, pubPath string, err error) {
	priv, pub, err := order.GenerateKey()
	if err != nil {
		return "", "", err
	}
	privPEM, err := order.EncodePrivateKeyPEM(priv)
	if err != nil {
		return "", "", err
	}
	pubPEM, err := order.EncodePublicKeyPEM(pub)
	if err != nil {
		return "", "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", err
	}
	privPath = filepath.Join(dir, name+".key")
	pubPath = filepath.Join(dir, name+".pub")
	if err := os.WriteFile(privPath, privPEM, 0o600); err != nil {
		return "", "", err
	}
	if err := os.WriteFile(pubPath, pubPEM, 0o644); err != nil {
		return "", "", err
	}
	if err := selfCheck(privPath, pubPath); err != nil {
		return "", "", fmt.Errorf("key pair self check: %w", err)
	}
	return privPath, pubPath, nil
}

func selfCheck(privPath, pubPath string) error {
	priv, err := order.LoadPrivateKeyFile(privPath)
	if err != nil {
		return err
	}
	pub, err := order.LoadPublicKeyFile(pubPath)
	if err != nil {
		return err
	}
	o, err := order.CreateSignedOrder(order.Attack, order.DefaultSenderID, priv)
	if err != nil {
		return err
	}
	return order.Verify(pub, o)
}
