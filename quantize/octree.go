package quantize

import (
	"image"
	"sort"

	"github.com/bodgit/indexbmp/palette"
)

const octreeDepth = 8

type octreeNode struct {
	children         [8]*octreeNode
	leaf             bool
	pixels           int
	red, green, blue int
}

func (n *octreeNode) color() palette.Color {
	c := float64(n.pixels)
	return palette.Color{
		R: round(float64(n.red) / c),
		G: round(float64(n.green) / c),
		B: round(float64(n.blue) / c),
	}
}

type octreeTree struct {
	root   *octreeNode
	leaves int
	// Internal nodes per level in creation order, candidates for reduction
	levels [octreeDepth][]*octreeNode
}

func childIndex(c palette.Color, level int) int {
	shift := uint(7 - level)
	return int((c.R>>shift)&1)<<2 | int((c.G>>shift)&1)<<1 | int((c.B>>shift)&1)
}

func (t *octreeTree) insert(c palette.Color) {
	n := t.root
	for level := 0; level < octreeDepth && !n.leaf; level++ {
		i := childIndex(c, level)
		if n.children[i] == nil {
			child := &octreeNode{}
			if level == octreeDepth-1 {
				child.leaf = true
				t.leaves++
			} else {
				t.levels[level+1] = append(t.levels[level+1], child)
			}
			n.children[i] = child
		}
		n = n.children[i]
	}
	n.pixels++
	n.red += int(c.R)
	n.green += int(c.G)
	n.blue += int(c.B)
}

func (n *octreeNode) population() int {
	if n.leaf {
		return n.pixels
	}
	var p int
	for _, c := range n.children {
		if c != nil {
			p += c.population()
		}
	}
	return p
}

// fold merges the children of n, which must all be leaves, into n
func (t *octreeTree) fold(n *octreeNode) {
	var children int
	for i, c := range n.children {
		if c == nil {
			continue
		}
		n.pixels += c.pixels
		n.red += c.red
		n.green += c.green
		n.blue += c.blue
		n.children[i] = nil
		children++
	}
	n.leaf = true
	t.leaves -= children - 1
}

// reduce folds nodes starting from the deepest level that still has
// internal nodes, least populated first, until no more than target leaves
// remain
func (t *octreeTree) reduce(target int) {
	for level := octreeDepth - 1; level >= 0 && t.leaves > target; level-- {
		nodes := t.levels[level]
		pop := make(map[*octreeNode]int, len(nodes))
		for _, n := range nodes {
			pop[n] = n.population()
		}
		sort.SliceStable(nodes, func(i, j int) bool {
			return pop[nodes[i]] < pop[nodes[j]]
		})

		i := 0
		for ; i < len(nodes) && t.leaves > target; i++ {
			t.fold(nodes[i])
		}
		t.levels[level] = nodes[i:]
	}
}

func (t *octreeTree) leafColors(n *octreeNode, p palette.Palette) palette.Palette {
	if n.leaf {
		if n.pixels > 0 {
			p = append(p, n.color())
		}
		return p
	}
	for _, c := range n.children {
		if c != nil {
			p = t.leafColors(c, p)
		}
	}
	return p
}

// octree is a classic octree quantizer; every color is inserted at full
// depth and the tree is folded from the bottom up until few enough leaves
// remain.
type octree struct{}

func (octree) Quantize(m *image.NRGBA, maxColors int, reserved *palette.Color) (palette.Palette, *image.Paletted, error) {
	target, err := targetColors(m, maxColors, reserved)
	if err != nil {
		return nil, nil, err
	}
	if target == 0 {
		return finish(m, nil, reserved)
	}

	t := &octreeTree{root: &octreeNode{}}
	t.levels[0] = []*octreeNode{t.root}
	for _, c := range pixels(m, 1) {
		t.insert(c)
	}

	t.reduce(target)

	return finish(m, t.leafColors(t.root, make(palette.Palette, 0, target+1)), reserved)
}
