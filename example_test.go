package cropview_test

import (
	"fmt"
	"image"

	"github.com/sebnyberg/cropview"
	"github.com/sebnyberg/cropview/geom"
	"github.com/sebnyberg/cropview/gesture"
	"github.com/sebnyberg/cropview/orient"
)

func Example() {
	// A 600x600 photo shown in a 300x300 view.
	photo := image.NewNRGBA(image.Rect(0, 0, 600, 600))
	w := cropview.New(cropview.Bitmap{Image: photo}, geom.Sz(300, 300), cropview.DefaultOptions(), nil)

	drag := gesture.Drag(geom.Pt(50, 50), geom.Pt(150, 150))
	if err := w.Run(&drag); err != nil {
		panic(err)
	}
	r, _ := w.Crop()
	out, _ := w.CropImage()
	fmt.Println(w.Session().Rect, r, out.Image.Bounds())
	// Output: (50,50)+100x100 (100,100)+200x200 (0,0)-(200,200)
}

func ExampleBitmapRect() {
	// A photo stored in portrait, shown rotated left in a landscape frame.
	r, ok := cropview.BitmapRect(geom.Rc(10, 20, 30, 40), geom.Sz(300, 200), orient.RotateLeft, geom.Sz(200, 300))
	fmt.Println(r, ok)
	// Output: (140,10)+40x30 true
}
