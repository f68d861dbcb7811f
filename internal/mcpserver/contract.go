package mcpserver

// NoteFormat describes how vault files become pages, for LLM consumers that
// browse the vault.
const NoteFormat = `# Vault Note Format

## Frontmatter

` + "```" + `markdown
---
title: Human-readable title   # OPTIONAL – defaults to the original file or folder name
order: 10                     # OPTIONAL – lower sorts first, default 999
tags: [go, notes]             # OPTIONAL – matched case-insensitively
publish: false                # OPTIONAL – hides the note in production builds
description: One-line summary # OPTIONAL
---
` + "```" + `

## Slugs

Every path segment is lowercased; ` + "`" + `& ( ) [ ] { }` + "`" + ` and other punctuation are removed,
whitespace becomes ` + "`" + `-` + "`" + ` and repeated dashes collapse. ` + "`" + `Projects/My App.md` + "`" + ` is served at
` + "`" + `/vault/projects/my-app` + "`" + `.

## Folders

A file named ` + "`" + `index.md` + "`" + ` or ` + "`" + `README.md` + "`" + ` (any case) is the folder note: its content is shown
for the folder itself, and its title and order apply to the folder. A folder without one is a
plain container. The vault's own root index is not part of the tree.

## Links

- ` + "`" + `[[Note Name]]` + "`" + `, ` + "`" + `[[Note Name|label]]` + "`" + ` and ` + "`" + `[[Note Name#Heading]]` + "`" + ` resolve by file name,
  case-insensitively, preferring the shortest matching path.
- ` + "`" + `![[image.png]]` + "`" + ` embeds an attachment.
- Relative Markdown links such as ` + "`" + `[x](../Other%20Note.md)` + "`" + ` are rewritten to slugs.

## Attachments

Binary files live in ` + "`" + `attachments/` + "`" + ` and are served at ` + "`" + `/vault/attachments/<name>` + "`" + `.
`
