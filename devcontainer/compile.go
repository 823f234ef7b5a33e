package devcontainer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"
)

// Descriptor locations probed under a repository root, in priority order.
var descriptorPaths = []string{
	filepath.Join(".devcontainer", "devcontainer.json"),
	".devcontainer.json",
}

// BuildDirName is the repository directory whose contents form the base
// image build context.
const BuildDirName = ".devcontainer"

// Compile locates the environment descriptor under repoDir and extracts it
// into a normalized Spec. A missing repository, missing descriptor or
// entirely unparsable document yields the minimal Spec; individually
// malformed fields degrade to absent. Compile never returns an error;
// downstream consumers treat every Spec as valid.
func Compile(repoDir string) *Spec {
	spec := &Spec{}
	if repoDir == "" {
		return spec
	}
	var data []byte
	for _, rel := range descriptorPaths {
		b, err := os.ReadFile(filepath.Join(repoDir, rel))
		if err == nil {
			data = b
			break
		}
	}
	if data == nil {
		return spec
	}

	// Parse the top level into raw fields so one malformed field cannot
	// poison the others.
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return spec
	}

	custom := vscodeCustomizations(doc)

	// extensions: primary list, fallback to customizations.vscode.
	spec.Extensions = stringList(doc["extensions"])
	if len(spec.Extensions) == 0 {
		spec.Extensions = stringList(custom["extensions"])
	}

	// settings: primary key, fallback to customizations.vscode.
	spec.Settings = jsonObject(doc["settings"])
	if spec.Settings == nil {
		spec.Settings = jsonObject(custom["settings"])
	}

	spec.Features = jsonObject(doc["features"])
	spec.ForwardPorts = intList(doc["forwardPorts"])
	spec.Customizations = jsonObject(doc["customizations"])
	spec.ContainerEnv = envLines(doc["containerEnv"])
	spec.RemoteEnv = envLines(doc["remoteEnv"])
	spec.RemoteUser = stringValue(doc["remoteUser"])
	spec.ContainerUser = stringValue(doc["containerUser"])
	spec.PostCreateCommand = commandValue(doc["postCreateCommand"])
	spec.PostStartCommand = commandValue(doc["postStartCommand"])
	return spec
}

// vscodeCustomizations returns the nested customizations.vscode block used
// as the fallback location for extensions and settings.
func vscodeCustomizations(doc map[string]json.RawMessage) map[string]json.RawMessage {
	raw, ok := doc["customizations"]
	if !ok {
		return nil
	}
	var custom map[string]json.RawMessage
	if err := json.Unmarshal(raw, &custom); err != nil {
		return nil
	}
	var vscode map[string]json.RawMessage
	if err := json.Unmarshal(custom["vscode"], &vscode); err != nil {
		return nil
	}
	return vscode
}

func stringList(raw json.RawMessage) []string {
	if raw == nil {
		return nil
	}
	// Tolerate mixed-type arrays by decoding element-wise.
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	var out []string
	for _, it := range items {
		var s string
		if err := json.Unmarshal(it, &s); err == nil && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func intList(raw json.RawMessage) []int {
	if raw == nil {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	var out []int
	for _, it := range items {
		var n int
		if err := json.Unmarshal(it, &n); err == nil {
			out = append(out, n)
		}
	}
	return out
}

func jsonObject(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || len(obj) == 0 {
		return nil
	}
	// Re-marshal through a generic value to normalize whitespace so that
	// compiling the same descriptor twice yields byte-identical artifacts.
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	norm, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return norm
}

func envLines(raw json.RawMessage) []string {
	if raw == nil {
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil || len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s=%s", k, m[k]))
	}
	return lines
}

func stringValue(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// commandValue accepts the lifecycle command forms the descriptor allows:
// a plain string or an argv-style string array.
func commandValue(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var argv []string
	if err := json.Unmarshal(raw, &argv); err == nil {
		return strings.Join(argv, " ")
	}
	return ""
}
