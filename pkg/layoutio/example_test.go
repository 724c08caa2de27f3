package layoutio_test

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/einkplacer/pkg/anchor"
	"github.com/matzehuels/einkplacer/pkg/element"
	"github.com/matzehuels/einkplacer/pkg/layoutio"
)

func ExampleExportElement() {
	e := element.New(element.KindText, anchor.TopLeft, 1)
	e.ID = 1

	data, _ := json.Marshal(layoutio.ExportElement(e, anchor.Default()))
	fmt.Println(string(data))
	// Output: {"id":1,"type":"text","x":76,"y":75,"anchor":"tl","width":100,"height":50,"text":"Sample Text","level":1}
}
