package main

import (
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/luca-patrignani/byzantine-general/general"
)

func printProbeReport(report *general.Report) {
	for _, res := range report.Results {
		if res.Status == general.Up {
			pterm.Success.Printfln("%s is up", res.Endpoint)
		} else {
			pterm.Error.Printfln("%s is down [%s]", res.Endpoint, res.Reason)
		}
	}
}

func printBroadcastReport(report *general.Report) {
	if report.Honesty == general.Honest {
		pterm.Info.Printfln("Message: %s", report.Messages[0])
	} else {
		pterm.Info.Printfln("Attack message: %s", report.Messages[0])
		pterm.Info.Printfln("Retreat message: %s", report.Messages[1])
	}
	data := pterm.TableData{{"#", "Lieutenant", "Order", "Status"}}
	for _, res := range report.Results {
		status := pterm.LightGreen(res.Status.String())
		if res.Status != general.Delivered {
			status = pterm.LightRed(res.Status.String() + " [" + res.Reason + "]")
		}
		data = append(data, []string{
			strconv.Itoa(res.Index + 1),
			res.Endpoint.String(),
			orderOf(res.Message),
			status,
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	pterm.Println(pterm.Gray("round " + report.ID.String()))
}

// orderOf returns the label part of an encoded order.
func orderOf(message string) string {
	label, _, _ := strings.Cut(message, ":")
	return label
}
