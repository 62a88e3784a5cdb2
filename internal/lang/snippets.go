package lang

var builtin = []Descriptor{
	{
		ID:        "javascript",
		Label:     "JavaScript",
		Extension: "js",
		Suffixes:  []string{".js", ".jsx", ".ts", ".tsx"},
		Snippet: `// JavaScript
function hello(name) {
  console.log("Hello, " + name + "!");
}

hello("world");
`,
	},
	{
		ID:        "html",
		Label:     "HTML",
		Extension: "html",
		Suffixes:  []string{".html", ".htm"},
		Snippet: `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <title>Sample</title>
</head>
<body>
  <h1>Hello</h1>
  <p>Write your content here.</p>
</body>
</html>
`,
	},
	{
		ID:        "css",
		Label:     "CSS",
		Extension: "css",
		Suffixes:  []string{".css"},
		Snippet: `/* CSS sample */
body {
  font-family: system-ui, sans-serif;
  background: #111;
  color: #eee;
}
`,
	},
	{
		ID:        "json",
		Label:     "JSON",
		Extension: "json",
		Suffixes:  []string{".json"},
		Snippet: `{
  "name": "sample",
  "version": "1.0.0",
  "private": true
}
`,
	},
	{
		ID:        "lua",
		Label:     "Lua",
		Extension: "lua",
		Suffixes:  []string{".lua"},
		Snippet: `-- Lua sample
local message = "Hello Lua"
print(message)
`,
	},
	{
		ID:        "python",
		Label:     "Python",
		Extension: "py",
		Suffixes:  []string{".py"},
		Snippet: `# Python sample
def hello(name: str) -> None:
    print(f"Hello, {name}!")

hello("world")
`,
	},
	{
		ID:        PlainText,
		Label:     "Plain text",
		Extension: "txt",
		Snippet:   "Write your text here.",
	},
}
