package ispd

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Parse reads an ISPD 2008 benchmark from r. The format is fully
// whitespace-separated, so parsing proceeds token by token; any deviation
// from the expected layout is reported with the section that failed.
func Parse(r io.Reader) (*Data, error) {
	br := bufio.NewReader(r)
	d := &Data{}

	var tag string
	if _, err := fmt.Fscan(br, &tag, &d.NumXGrid, &d.NumYGrid, &d.NumLayer); err != nil || tag != "grid" {
		return nil, sectionError("grid", err)
	}

	var err error
	if d.VerticalCapacity, err = readLayerValues(br, "vertical", "capacity", d.NumLayer); err != nil {
		return nil, err
	}
	if d.HorizontalCapacity, err = readLayerValues(br, "horizontal", "capacity", d.NumLayer); err != nil {
		return nil, err
	}
	if d.MinimumWidth, err = readLayerValues(br, "minimum", "width", d.NumLayer); err != nil {
		return nil, err
	}
	if d.MinimumSpacing, err = readLayerValues(br, "minimum", "spacing", d.NumLayer); err != nil {
		return nil, err
	}
	if d.ViaSpacing, err = readLayerValues(br, "via", "spacing", d.NumLayer); err != nil {
		return nil, err
	}

	if _, err := fmt.Fscan(br,
		&d.LowerLeftX, &d.LowerLeftY, &d.TileWidth, &d.TileHeight); err != nil {
		return nil, sectionError("origin/tile size", err)
	}

	var numTag, netTag string
	if _, err := fmt.Fscan(br, &numTag, &netTag, &d.NumNet); err != nil || numTag != "num" || netTag != "net" {
		return nil, sectionError("num net", err)
	}

	d.Nets = make([]*Net, 0, d.NumNet)
	for i := 0; i < d.NumNet; i++ {
		net := &Net{}
		if _, err := fmt.Fscan(br,
			&net.Name, &net.ID, &net.NumPins, &net.MinimumWidth); err != nil {
			return nil, sectionError(fmt.Sprintf("net %d header", i), err)
		}

		net.Pins = make([]Pin, 0, net.NumPins)
		for j := 0; j < net.NumPins; j++ {
			var p Pin
			if _, err := fmt.Fscan(br, &p.X, &p.Y, &p.Z); err != nil {
				return nil, sectionError(
					fmt.Sprintf("net %s pin %d", net.Name, j), err)
			}
			net.Pins = append(net.Pins, p)
		}

		d.Nets = append(d.Nets, net)
	}

	if _, err := fmt.Fscan(br, &d.NumCapacityAdj); err != nil {
		return nil, sectionError("capacity adjustment count", err)
	}

	d.CapacityAdjs = make([]CapacityAdj, 0, d.NumCapacityAdj)
	for i := 0; i < d.NumCapacityAdj; i++ {
		var adj CapacityAdj
		if _, err := fmt.Fscan(br,
			&adj.Grid1.X, &adj.Grid1.Y, &adj.Grid1.Z,
			&adj.Grid2.X, &adj.Grid2.Y, &adj.Grid2.Z,
			&adj.ReducedCapacityLevel); err != nil {
			return nil, sectionError(fmt.Sprintf("capacity adjustment %d", i), err)
		}
		d.CapacityAdjs = append(d.CapacityAdjs, adj)
	}

	return d, nil
}

// ParseFile loads a benchmark from a file path.
func ParseFile(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ispd: %w", err)
	}
	defer f.Close()

	d, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%w (in %s)", err, path)
	}
	return d, nil
}

func readLayerValues(r io.Reader, tag1, tag2 string, n int) ([]int, error) {
	section := tag1 + " " + tag2

	var a, b string
	if _, err := fmt.Fscan(r, &a, &b); err != nil || a != tag1 || b != tag2 {
		return nil, sectionError(section, err)
	}

	values := make([]int, 0, n)
	for i := 0; i < n; i++ {
		var v int
		if _, err := fmt.Fscan(r, &v); err != nil {
			return nil, sectionError(section, err)
		}
		values = append(values, v)
	}
	return values, nil
}

func sectionError(section string, err error) error {
	if err != nil {
		return fmt.Errorf("ispd: failed to read %s: %w", section, err)
	}
	return fmt.Errorf("ispd: failed to read %s", section)
}
