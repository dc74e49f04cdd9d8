package patch

import (
	"bytes"
	"encoding/json"
)

// PlanAnchor is the fragment of the plan-confirmation component the
// auto-accept hook is attached to. It only exists in the build whose
// minified names it spells.
const PlanAnchor = `let M=Md(),R=M?oH(M):null`

// PlanAutoAcceptHook triggers the "yes-bypass-permissions" choice as soon as
// the plan dialog mounts, provided bypass mode is available and the plan is
// not empty.
const PlanAutoAcceptHook = `k5.useEffect(()=>{if(G.toolPermissionContext.isBypassPermissionsModeAvailable&&!F){N("yes-bypass-permissions")}},[]);`

// LoadingMessages is the spinner word list exactly as it appears in the
// upstream build.
const LoadingMessages = `["Accomplishing","Actioning","Actualizing","Baking","Brewing","Calculating","Cerebrating","Churning","Clauding","Coalescing","Cogitating","Computing","Conjuring","Considering","Cooking","Crafting","Creating","Crunching","Deliberating","Determining","Doing","Effecting","Finagling","Forging","Forming","Generating","Hatching","Herding","Honking","Hustling","Ideating","Inferring","Manifesting","Marinating","Moseying","Mulling","Mustering","Musing","Noodling","Percolating","Pondering","Processing","Puttering","Reticulating","Ruminating","Schlepping","Shucking","Simmering","Smooshing","Spinning","Stewing","Synthesizing","Thinking","Transmuting","Vibing","Working"]`

const (
	ansiRed     = "\x1b[31m"
	ansiYellow  = "\x1b[33m"
	ansiCyan    = "\x1b[36m"
	ansiMagenta = "\x1b[35m"
	ansiBold    = "\x1b[1m"
	ansiReset   = "\x1b[0m"
)

// LoadingSuffixes are appended to the spinner words. They end up inside the
// wrapped CLI's output, so they carry raw ANSI sequences rather than
// terminal-detected styling.
var LoadingSuffixes = []string{
	" " + ansiRed + "(safety's off, hold on tight)" + ansiReset,
	" " + ansiYellow + "(all gas, no brakes, lfg)" + ansiReset,
	" " + ansiBold + ansiMagenta + "(yolo mode engaged)" + ansiReset,
	" " + ansiCyan + "(dangerous mode! I guess you can just do things)" + ansiReset,
}

// DefaultRules returns the rule list in application order.
func DefaultRules() []Rule {
	punycode := LiteralRule("punycode", `"punycode"`, `"punycode/"`)
	punycode.LocalOnly = true

	return []Rule{
		punycode,
		RegexRule("is-docker", "true", `[a-zA-Z0-9_]*\.getIsDocker\(\)`),
		RegexRule("internet-access", "false", `[a-zA-Z0-9_]*\.hasInternetAccess\(\)`),
		RegexRule("root-getuid", "false", `process\.getuid\(\)\s*===\s*0`),
		RegexRule("root-getuid-optional", "false", `process\.getuid\?\.\(\)\s*===\s*0`),
		RegexRule("root-getuid-any", "false", `\w+\.getuid\(\)\s*===\s*0`),
		RegexRule("root-geteuid", "false",
			`process\.geteuid\(\)\s*===\s*0`,
			`process\.geteuid\?\.\(\)\s*===\s*0`,
		),
		AnchorRule("plan-auto-accept", PlanAnchor, func(anchor string, _ *Engine) string {
			return anchor + ";" + PlanAutoAcceptHook
		}),
		AnchorRule("loading-messages", LoadingMessages, suffixLoadingMessages),
	}
}

// suffixLoadingMessages re-encodes the word array with one random suffix per
// word. On a decode failure the array is returned unchanged.
func suffixLoadingMessages(array string, e *Engine) string {
	var words []string
	if err := json.Unmarshal([]byte(array), &words); err != nil {
		e.logger().Debug().Err(err).Msg("Error modifying loading messages array")
		return array
	}
	for i, w := range words {
		words[i] = w + LoadingSuffixes[e.intn(len(LoadingSuffixes))]
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(words); err != nil {
		e.logger().Debug().Err(err).Msg("Error modifying loading messages array")
		return array
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
