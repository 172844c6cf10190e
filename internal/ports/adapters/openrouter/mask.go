package openrouter

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// DefaultTechTerms survive Hinglish translation verbatim. UI and device
// vocabulary reads wrong when transliterated, so it is pinned to English.
var DefaultTechTerms = []string{
	"Settings", "Update", "Install", "Download", "Upload", "Click", "Tap",
	"Login", "Password", "Account", "Profile", "Edit", "Save", "Delete",
	"Search", "Connect", "Play", "Pause", "Open", "Close", "Select",
	"Phone", "Mobile", "Computer", "Device", "Camera", "Mic", "Battery",
	"Screen", "Keyboard", "Memory", "Storage", "Processor",
	"Internet", "Wi-Fi", "Bluetooth", "Network", "Data", "Online", "App",
	"Video", "Audio", "Photo", "File", "Folder", "Timeline", "Render",
}

// MaskTerms replaces every protected term in text with an opaque placeholder
// and returns the mapping needed to restore them. Longer terms are masked
// first so "Wi-Fi Password" does not get split by a shorter match.
func MaskTerms(text string, terms []string) (string, map[string]string) {
	maskMap := make(map[string]string)
	masked := text

	sorted := make([]string, len(terms))
	copy(sorted, terms)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	for i, term := range sorted {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
		if err != nil {
			continue
		}
		if !re.MatchString(masked) {
			continue
		}
		placeholder := fmt.Sprintf("__ID_%d__", i)
		masked = re.ReplaceAllString(masked, placeholder)
		maskMap[placeholder] = term
	}
	return masked, maskMap
}

// UnmaskTerms restores masked terms. Models sometimes mangle the underscores
// into spaces; both spellings are restored.
func UnmaskTerms(text string, maskMap map[string]string) string {
	for placeholder, term := range maskMap {
		text = strings.ReplaceAll(text, placeholder, term)
		text = strings.ReplaceAll(text, strings.ReplaceAll(placeholder, "_", " "), term)
	}
	return text
}
