package rope

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
)

// generateText creates a string of the given size with realistic content.
func generateText(size int) string {
	var sb strings.Builder
	sb.Grow(size)

	words := []string{"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog", "héllo", "wörld", "😀"}
	for sb.Len() < size {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(words[rand.Intn(len(words))])
	}
	return sb.String()
}

var benchSizes = []int{1 << 10, 1 << 14, 1 << 18}

func BenchmarkFromString(b *testing.B) {
	for _, size := range benchSizes {
		text := generateText(size)
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				_ = FromString(text)
			}
		})
	}
}

func BenchmarkIndex(b *testing.B) {
	for _, size := range benchSizes {
		r := FromString(generateText(size))
		total := CalcTotalLength(r)
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, _ = Index(r, int64(i)%total)
			}
		})
	}
}

func BenchmarkInsertMiddle(b *testing.B) {
	for _, size := range benchSizes {
		r := FromString(generateText(size))
		mid := CalcTotalLength(r) / 2
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_, _ = Insert(r, mid, "x")
			}
		})
	}
}

func BenchmarkSequentialTyping(b *testing.B) {
	for i := 0; i < b.N; i++ {
		var r Node = Empty
		for j := int64(0); j < 1000; j++ {
			r, _ = Insert(r, j, "x")
		}
	}
}

func BenchmarkSplit(b *testing.B) {
	r := FromString(generateText(1 << 16))
	total := CalcTotalLength(r)
	for i := 0; i < b.N; i++ {
		_, _, _ = Split(r, int64(i)%total)
	}
}

func BenchmarkCollapse(b *testing.B) {
	r := FromString(generateText(1 << 16))
	for i := 0; i < b.N; i++ {
		_ = Collapse(r)
	}
}

func BenchmarkRebalance(b *testing.B) {
	var chain Node = Empty
	for i := 0; i < 4096; i++ {
		chain = ConcatString(chain, "word ")
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Rebalance(chain)
	}
}

func BenchmarkRunesFrom(b *testing.B) {
	r := FromString(generateText(1 << 16))
	start := CalcTotalLength(r) / 2
	for i := 0; i < b.N; i++ {
		for range RunesFrom(r, start) {
		}
	}
}
