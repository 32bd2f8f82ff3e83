// Package assets holds the page themes used by standalone HTML output: the
// component stylesheets under styles/ and the html/template page layouts
// under templates/.
//
// A Loader reads one source, either the set compiled into the binary or a
// theme directory on disk laid out the same way:
//
//	{dir}/styles/{name}.css
//	{dir}/templates/{name}.html
//
// AssetResolver stacks a theme directory over the built-in set, so a
// directory only needs the files it overrides. Names are plain identifiers
// and files read from disk must resolve inside the theme directory.
package assets
