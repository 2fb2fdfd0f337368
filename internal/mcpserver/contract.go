package mcpserver

// CardFormatContract describes the card file format that LLM consumers
// should follow when writing cards into the board directory.
const CardFormatContract = `# Board Card Format Contract

Every card on the board is one Markdown file, ` + "`" + `<board>/<id>.md` + "`" + `, with YAML frontmatter.

## Structure

` + "```" + `markdown
---
id: admission-2021            # OPTIONAL – defaults to the file name stem
kind: event                   # OPTIONAL – event, lab, medication, or free text
title: Admission              # OPTIONAL – defaults to the first "# " heading
x: 120                        # world coordinates of the top-left corner
y: 40
width: 240                    # world units
height: auto                  # a number, or "auto" to let the renderer size it
date: 2021-03-04              # OPTIONAL – places the card on the timeline
end_date: 2021-04-01          # OPTIONAL – medications and labs spanning a range
track: medications            # OPTIONAL – timeline row
---

Body text in standard Markdown.
` + "```" + `

## Rules

1. **Frontmatter fences** ` + "`" + `---` + "`" + ` must be the first line of the file.
2. **Ids** are plain names: no slashes, no leading dot. They must be unique on the board.
3. **Coordinates** are world units; the viewport maps them to the screen as
   ` + "`" + `screen = world * zoom + (x, y)` + "`" + `.
4. **Height** is either a number or the string ` + "`" + `auto` + "`" + `. Auto-height cards are
   measured by the client; the camera falls back to 400 units until a measurement arrives.
5. **Dates** are ISO-8601 dates or RFC 3339 timestamps. Only ` + "`" + `event` + "`" + `, ` + "`" + `lab` + "`" + ` and
   ` + "`" + `medication` + "`" + ` cards are positioned by ` + "`" + `layout_timeline` + "`" + `; with ` + "`" + `end_date` + "`" + ` set, the
   card width becomes the scaled length of the range.
6. **Encoding** is UTF-8 with a trailing newline.

## Example

` + "```" + `markdown
---
id: metformin
kind: medication
title: Metformin 500mg
width: 240
height: 80
date: 2021-03-04
end_date: 2022-01-10
track: medications
---

Twice daily with meals.
` + "```" + `
`
