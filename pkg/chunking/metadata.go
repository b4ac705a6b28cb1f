package chunking

import (
	"sort"
	"strings"

	"github.com/hsn0918/r3m/pkg/utils"
)

// ignoredMetadataKeys are never rendered into chunk suffixes.
var ignoredMetadataKeys = map[string]struct{}{
	"ignore_for_qa": {},
}

// BuildMetadataSuffixes renders document metadata into the semantic suffix
// ("Metadata:" plus tab-indented "key - value" lines) and the keyword
// suffix (space-joined values). Keys are emitted in sorted order so chunk
// output is deterministic; values have whitespace collapsed.
func BuildMetadataSuffixes(metadata map[string]string) (semantic, keyword string) {
	if len(metadata) == 0 {
		return "", ""
	}

	keys := make([]string, 0, len(metadata))
	for key := range metadata {
		if _, skip := ignoredMetadataKeys[strings.ToLower(key)]; skip {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var lines, values []string
	for _, key := range keys {
		value := utils.NormalizeWhitespace(metadata[key])
		if value == "" {
			continue
		}
		lines = append(lines, "\t"+key+" - "+value)
		values = append(values, value)
	}
	if len(lines) == 0 {
		return "", ""
	}

	semantic = "Metadata:\n" + strings.Join(lines, "\n")
	keyword = strings.Join(values, " ")
	return semantic, keyword
}

// MetadataTooLarge reports whether the semantic suffix exceeds its share of
// the chunk token budget.
func MetadataTooLarge(metadataTokens, chunkTokenLimit int, maxPercentage float64) bool {
	if maxPercentage <= 0 {
		maxPercentage = MaxMetadataPercentage
	}
	return float64(metadataTokens) > maxPercentage*float64(chunkTokenLimit)
}
