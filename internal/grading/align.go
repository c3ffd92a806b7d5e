package grading

// OpTag classifies one block of an edit script.
type OpTag string

const (
	OpEqual   OpTag = "equal"
	OpReplace OpTag = "replace"
	OpDelete  OpTag = "delete"
	OpInsert  OpTag = "insert"
)

// Opcode describes how a[I1:I2] relates to b[J1:J2].
type Opcode struct {
	Tag    OpTag
	I1, I2 int
	J1, J2 int
}

// Opcodes returns the block edit script turning a into b, derived from a
// longest common subsequence. Blocks are contiguous and cover both inputs
// in index order; adjacent matches are merged into a single equal block and
// each gap between matches becomes one replace, delete or insert block.
func Opcodes(a, b []string) []Opcode {
	n, m := len(a), len(b)
	if n == 0 && m == 0 {
		return nil
	}

	// lcs[i][j] = LCS length of a[i:] and b[j:], flattened row-major.
	w := m + 1
	lcs := make([]int32, (n+1)*w)
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i*w+j] = lcs[(i+1)*w+j+1] + 1
			} else if down, right := lcs[(i+1)*w+j], lcs[i*w+j+1]; down >= right {
				lcs[i*w+j] = down
			} else {
				lcs[i*w+j] = right
			}
		}
	}

	ops := make([]Opcode, 0, 8)
	emit := func(tag OpTag, i1, i2, j1, j2 int) {
		if last := len(ops) - 1; tag == OpEqual && last >= 0 && ops[last].Tag == OpEqual &&
			ops[last].I2 == i1 && ops[last].J2 == j1 {
			ops[last].I2, ops[last].J2 = i2, j2
			return
		}
		ops = append(ops, Opcode{Tag: tag, I1: i1, I2: i2, J1: j1, J2: j2})
	}
	gap := func(i1, i2, j1, j2 int) {
		switch {
		case i1 < i2 && j1 < j2:
			emit(OpReplace, i1, i2, j1, j2)
		case i1 < i2:
			emit(OpDelete, i1, i2, j1, j1)
		case j1 < j2:
			emit(OpInsert, i1, i1, j1, j2)
		}
	}

	i, j := 0, 0
	gi, gj := 0, 0 // start of the pending gap
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			gap(gi, i, gj, j)
			emit(OpEqual, i, i+1, j, j+1)
			i++
			j++
			gi, gj = i, j
		case lcs[(i+1)*w+j] >= lcs[i*w+j+1]:
			i++
		default:
			j++
		}
	}
	gap(gi, n, gj, m)
	return ops
}
