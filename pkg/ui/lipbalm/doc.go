/*
Package lipbalm expands XML-like style tags into lipgloss styled text.

Markup names styles by tag. Each tag must match a key of the StyleMap passed
in, unknown tags are dropped and keep their content:

	styles := lipbalm.StyleMap{"path": lipgloss.NewStyle().Bold(true)}
	out, err := lipbalm.ExpandTags(`copied <path>.vimrc</path>`, styles)

Render runs a text/template first and expands the result:

	out, err := lipbalm.Render(`<path>{{.Item}}</path>`, entry, styles)

StripTags removes all markup and returns the bare text, which is what plain
output and log files use.

Content inside <no-format> is only emitted when the active renderer has no
color support, so a symbol can stand in for a color:

	<success>In sync</success><no-format> (ok)</no-format>

Whether color is available is read from the renderer set with
SetDefaultRenderer, whose profile comes from termenv and honors NO_COLOR.
Input that is not well formed, such as a bare "&" or an unclosed tag, is
returned unchanged; escape such characters before expanding.
*/
package lipbalm
