// example.go — starter files for credrender init.
package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
)

// ExampleJSON returns a sample template.json and values.json. The template
// image is a generated 600x400 ivory background so the starter files work
// without any external asset.
func ExampleJSON() (templateJSON, valuesJSON string) {
	templateJSON = fmt.Sprintf(`{
  "name": "Sample Certificate",
  "type": "certificate",
  "image": %q,
  "placeholders": [
    {
      "fieldName": "Name",
      "fieldType": "text",
      "x": 300, "y": 180,
      "fontSize": 32,
      "fontFamily": "Arial",
      "color": "#1a1a2e",
      "align": "center"
    },
    {
      "fieldName": "Date",
      "fieldType": "date",
      "x": 300, "y": 260,
      "fontSize": 18,
      "fontFamily": "Georgia",
      "color": "#444444",
      "align": "center"
    },
    {
      "fieldName": "Email",
      "fieldType": "email"
    }
  ]
}`, examplePNGDataURI(600, 400))

	valuesJSON = `{
  "values": {
    "Name": "Jane Doe",
    "Date": "2026-09-01",
    "Email": "jane@example.com"
  }
}`
	return
}

// examplePNGDataURI builds a solid ivory background as a data URI.
func examplePNGDataURI(w, h int) string {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{250, 248, 240, 255}}, image.Point{}, draw.Src)

	var buf bytes.Buffer
	png.Encode(&buf, img)
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}
