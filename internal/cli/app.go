package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/authgate/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in
// tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

type App struct {
	reader  *bufio.Reader
	gateway *GatewayClient
}

func NewApp(gatewayURL string) *App {
	return &App{
		reader:  bufio.NewReader(os.Stdin),
		gateway: NewGatewayClient(gatewayURL),
	}
}

// Register prompts for a username, email and password and creates an
// account. The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	id, err := a.gateway.Register(ctx, username, email, password)
	if err != nil {
		return err
	}

	fmt.Printf("Registered %s <%s>\n", id.Username, id.Email)
	return nil
}

// Login prompts for credentials, obtains a session token, and immediately
// verifies it against the gateway's whoami endpoint. The token is held in
// memory only.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	token, err := a.gateway.Login(ctx, username, password)
	if err != nil {
		return err
	}

	subject, err := a.gateway.Me(ctx, token)
	if err != nil {
		return fmt.Errorf("token issued but did not verify: %w", err)
	}

	fmt.Printf("Logged in as %s\n", subject)
	fmt.Printf("Token: %s\n", token)
	return nil
}

// Run dispatches the given subcommand.
func (a *App) Run(ctx context.Context, command string) error {
	switch command {
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	default:
		return fmt.Errorf("unknown command %q (expected register or login)", command)
	}
}
