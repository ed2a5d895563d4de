// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"fmt"

	"github.com/beevik/etree"

	"github.com/droidforge/droidforge/internal/issue"
)

// ToolsNamespace is the URI bound to the tools prefix.
const ToolsNamespace = "http://schemas.android.com/tools"

// Finalize declares xmlns:tools on the root element and re-indents the
// document with four spaces. Library manifests often use tools: attributes
// the main manifest never declared.
func Finalize(merged []byte) ([]byte, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(merged); err != nil {
		return nil, fmt.Errorf("%w: parse merged manifest: %w", issue.ErrMerge, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: merged manifest has no root element", issue.ErrMerge)
	}
	root.CreateAttr("xmlns:tools", ToolsNamespace)
	doc.Indent(4)

	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("%w: serialize merged manifest: %w", issue.ErrMerge, err)
	}
	return out, nil
}
