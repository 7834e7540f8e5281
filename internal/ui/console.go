package ui

import (
	"fmt"
	"time"

	"github.com/fatih/color"
)

var (
	successBadge = color.New(color.BgGreen, color.FgBlack, color.Bold)
	warningBadge = color.New(color.FgYellow, color.Bold)
	errorBadge   = color.New(color.BgRed, color.FgWhite, color.Bold)
	infoBadge    = color.New(color.FgCyan, color.Bold)

	successText = color.New(color.FgGreen, color.Bold)
	warningText = color.New(color.FgYellow)
	errorText   = color.New(color.FgRed)
	infoText    = color.New(color.FgCyan)
	mutedText   = color.New(color.FgHiBlack)
	accentText  = color.New(color.FgMagenta, color.Bold)

	methodPOST = color.New(color.BgHiMagenta, color.FgBlack, color.Bold)
	methodGET  = color.New(color.BgHiCyan, color.FgBlack, color.Bold)
)

// PrintSuccess logs a successful operation with green styling.
func PrintSuccess(msg string) {
	successBadge.Print(" OK ")
	fmt.Print(" ")
	successText.Println(msg)
}

// PrintError logs a failure with red styling.
func PrintError(msg string) {
	errorBadge.Print(" FAIL ")
	fmt.Print(" ")
	errorText.Println(msg)
}

// PrintInfo logs general information.
func PrintInfo(msg string) {
	infoBadge.Print("[PAGEGEN]")
	fmt.Print(" ")
	infoText.Println(msg)
}

// PrintWarn logs a warning.
func PrintWarn(msg string) {
	warningBadge.Print("[WARN]")
	fmt.Print(" ")
	warningText.Println(msg)
}

// PrintProbe logs one connectivity probe result during a provider sweep.
// Format: provider/model badge, latency, and detail on failure.
func PrintProbe(providerName, model string, ok bool, latency time.Duration, detail string) {
	mutedText.Printf("%s ", time.Now().Format("15:04:05"))
	accentText.Printf("%-11s ", providerName)
	fmt.Printf("%-36s ", truncate(model, 36))
	if ok {
		successBadge.Print(" PASS ")
		fmt.Print(" ")
		printLatency(latency)
	} else {
		errorBadge.Print(" FAIL ")
		fmt.Print(" ")
		errorText.Print(truncate(detail, 60))
	}
	fmt.Println()
}

// PrintVideoTick logs one poll-loop update.
func PrintVideoTick(attempt int, status string, progress int) {
	mutedText.Printf("%s ", time.Now().Format("15:04:05"))
	infoBadge.Printf("[%02d]", attempt)
	fmt.Print(" ")
	switch status {
	case "completed":
		successText.Print(status)
	case "failed", "cancelled":
		errorText.Print(status)
	default:
		warningText.Print(status)
	}
	if progress > 0 {
		mutedText.Printf(" %d%%", progress)
	}
	fmt.Println()
}

// PrintRequest logs a relay request line with color-coded method, status
// and latency.
func PrintRequest(method, path string, status int, latency time.Duration, keyUsed string) {
	mutedText.Printf("%s ", time.Now().Format("15:04:05"))
	printMethodBadge(method)
	fmt.Print(" ")
	fmt.Printf("%-34s ", truncate(path, 34))
	printStatusBadge(status)
	fmt.Print(" ")
	printLatency(latency)
	if keyUsed != "" {
		fmt.Print(" ")
		mutedText.Printf("key:%s", maskKeyShort(keyUsed))
	}
	fmt.Println()
}

func printMethodBadge(method string) {
	switch method {
	case "POST":
		methodPOST.Printf(" %s ", method)
	case "GET":
		methodGET.Printf(" %s ", method)
	default:
		mutedText.Printf(" %s ", method)
	}
}

func printStatusBadge(status int) {
	switch {
	case status >= 200 && status < 300:
		successBadge.Printf(" %d ", status)
	case status >= 400 && status < 500:
		warningBadge.Printf(" %d ", status)
	default:
		errorBadge.Printf(" %d ", status)
	}
}

// printLatency prints latency with a color gradient.
// Green: < 1s, Yellow: < 10s, Red: slower.
func printLatency(latency time.Duration) {
	ms := latency.Milliseconds()
	latencyStr := fmt.Sprintf("%5dms", ms)
	switch {
	case ms < 1000:
		successText.Print(latencyStr)
	case ms < 10000:
		warningText.Print(latencyStr)
	default:
		errorText.Print(latencyStr)
	}
}

// maskKeyShort returns a short masked key for console lines.
func maskKeyShort(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "***"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// PrintRelayStartup prints the relay listener info and endpoint table.
func PrintRelayStartup(host string, port, activeKeys int, providers []string) {
	fmt.Println()
	infoBadge.Print("[RELAY]")
	fmt.Print(" Listening on ")
	accentText.Printf("http://%s:%d\n", host, port)

	infoBadge.Print("[RELAY]")
	fmt.Print(" Active keys: ")
	if activeKeys > 0 {
		successText.Printf("%d", activeKeys)
	} else {
		errorText.Print("0")
	}
	fmt.Print(" | Providers: ")
	accentText.Println(fmt.Sprint(providers))

	fmt.Println()
	mutedText.Println("  POST /v1/ai-proxy/chat/completions   Chat relay")
	mutedText.Println("  POST /v1/ai-proxy/videos              Video task submit")
	mutedText.Println("  GET  /v1/ai-proxy/videos/:id          Video task status")
	mutedText.Println("  GET  /health                          Health check")
	fmt.Println()
}

// PrintShutdown prints a styled shutdown message.
func PrintShutdown() {
	fmt.Println()
	warningBadge.Print("[SHUTDOWN]")
	warningText.Println(" Graceful shutdown initiated...")
}

// PrintGoodbye prints a styled goodbye message.
func PrintGoodbye() {
	successBadge.Print(" OK ")
	fmt.Print(" ")
	successText.Println("Stopped.")
}
