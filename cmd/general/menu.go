package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"golang.org/x/term"

	"github.com/luca-patrignani/byzantine-general/general"
	"github.com/luca-patrignani/byzantine-general/order"
)

const (
	optionProbe     = "1"
	optionAttack    = "2"
	optionRetreat   = "3"
	optionHonest    = "4"
	optionDishonest = "5"
	optionExit      = "6"
)

var menuOptions = []string{
	optionProbe + ". Test nodes connectivity",
	optionAttack + ". Send attack message",
	optionRetreat + ". Send retreat message",
	optionHonest + ". Turn honest",
	optionDishonest + ". Turn dishonest",
	optionExit + ". Exit",
}

type menu struct {
	engine      *general.Engine
	lines       *bufio.Scanner
	interactive bool
}

// newMenu reads the operator choices from in. When in is a terminal the
// choices are picked from an interactive select, otherwise one choice is
// read per line.
func newMenu(engine *general.Engine, in io.Reader) *menu {
	m := &menu{engine: engine, lines: bufio.NewScanner(in)}
	if f, ok := in.(*os.File); ok {
		m.interactive = term.IsTerminal(int(f.Fd()))
	}
	return m
}

// run serves operator choices until exit, end of input or ctx is done. An
// interrupted menu returns ctx.Err() and sends nothing more.
func (m *menu) run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		pterm.DefaultSection.Printfln("General node is up and is %s!", m.engine.Honesty().Current())
		choice, err := m.next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		quit, err := m.dispatch(ctx, choice)
		if err != nil {
			return err
		}
		if quit {
			pterm.Println("Bye.")
			return nil
		}
		pterm.Println()
	}
}

// next waits for the operator choice or for ctx to be done, whichever comes
// first.
func (m *menu) next(ctx context.Context) (string, error) {
	type answer struct {
		choice string
		err    error
	}
	answers := make(chan answer, 1)
	go func() {
		choice, err := m.choose()
		answers <- answer{choice, err}
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case a := <-answers:
		return a.choice, a.err
	}
}

func (m *menu) choose() (string, error) {
	if m.interactive {
		selected, err := pterm.DefaultInteractiveSelect.
			WithDefaultText("Select an option").
			WithOptions(menuOptions).
			Show()
		if err != nil {
			return "", err
		}
		choice, _, _ := strings.Cut(selected, ".")
		return choice, nil
	}
	for _, o := range menuOptions {
		pterm.Println("== " + o)
	}
	pterm.Print("== Option: ")
	if !m.lines.Scan() {
		if err := m.lines.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(m.lines.Text()), nil
}

// dispatch runs the operator choice. Only a signing failure is returned as
// an error: without valid orders the General is useless.
func (m *menu) dispatch(ctx context.Context, choice string) (quit bool, err error) {
	switch choice {
	case optionProbe:
		spinner, _ := pterm.DefaultSpinner.Start("Testing nodes connectivity ...")
		report := m.engine.ProbeAll(ctx)
		stopSpinner(spinner, report)
		printProbeReport(report)
	case optionAttack, optionRetreat:
		label := order.Attack
		if choice == optionRetreat {
			label = order.Retreat
		}
		spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("Sending %s order ...", label))
		report, err := m.engine.Send(ctx, label)
		if err != nil {
			if spinner != nil {
				spinner.Fail(err.Error())
			}
			return false, err
		}
		stopSpinner(spinner, report)
		printBroadcastReport(report)
	case optionHonest:
		m.engine.Honesty().SetHonest()
	case optionDishonest:
		m.engine.Honesty().SetDishonest()
	case optionExit:
		return true, nil
	default:
		pterm.Warning.Printfln("'%s' is not a valid option.", choice)
		pterm.Println("Try again.")
	}
	return false, nil
}

func stopSpinner(spinner *pterm.SpinnerPrinter, report *general.Report) {
	if spinner == nil {
		return
	}
	if report.Unreachable() == 0 {
		spinner.Success()
	} else {
		spinner.Warning(fmt.Sprintf("%d of %d lieutenants unreachable", report.Unreachable(), len(report.Results)))
	}
}
