package cache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/y86sim/emu"
	"github.com/sarchlab/y86sim/timing/cache"
)

// recordingBacking is a sparse backing store that records writebacks.
type recordingBacking struct {
	bytes      map[uint64]byte
	writebacks []uint64
}

func newRecordingBacking() *recordingBacking {
	return &recordingBacking{bytes: make(map[uint64]byte)}
}

func (b *recordingBacking) Read(addr uint64, size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = b.bytes[addr+uint64(i)]
	}
	return data
}

func (b *recordingBacking) Write(addr uint64, data []byte) {
	b.writebacks = append(b.writebacks, addr)
	for i, v := range data {
		b.bytes[addr+uint64(i)] = v
	}
}

var _ = Describe("Cache", func() {
	var (
		c      *cache.Cache
		memory *emu.Memory
	)

	BeforeEach(func() {
		memory = emu.NewMemory()
		c = cache.New(cache.DefaultDataCacheConfig(), cache.NewMemoryBacking(memory))
	})

	Describe("Read operations", func() {
		It("should miss on cold cache", func() {
			Expect(memory.Write64(0x100, 0xdeadbeef)).To(Succeed())

			result := c.Read(0x100, 8)
			Expect(result.Hit).To(BeFalse())
			Expect(result.Latency).To(Equal(uint64(10)))
			Expect(result.Data).To(Equal(uint64(0xdeadbeef)))

			stats := c.Stats()
			Expect(stats.Reads).To(Equal(uint64(1)))
			Expect(stats.Misses).To(Equal(uint64(1)))
			Expect(stats.Hits).To(Equal(uint64(0)))
		})

		It("should hit on cached data", func() {
			Expect(memory.Write64(0x100, 0xcafebabe)).To(Succeed())

			c.Read(0x100, 8)
			result := c.Read(0x100, 8)

			Expect(result.Hit).To(BeTrue())
			Expect(result.Latency).To(Equal(uint64(1)))
			Expect(result.Data).To(Equal(uint64(0xcafebabe)))
			Expect(c.Stats().HitRate()).To(Equal(0.5))
		})

		It("should hit on different addresses in same cache line", func() {
			Expect(memory.Write64(0x100, 0x1111111111111111)).To(Succeed())
			Expect(memory.Write64(0x108, 0x2222222222222222)).To(Succeed())

			c.Read(0x100, 8)
			result := c.Read(0x108, 8)

			Expect(result.Hit).To(BeTrue())
			Expect(result.Data).To(Equal(uint64(0x2222222222222222)))
		})

		It("should fill both lines of a straddling access", func() {
			Expect(memory.Write64(0x11c, 0x0102030405060708)).To(Succeed())

			result := c.Read(0x11c, 8)
			Expect(result.Hit).To(BeFalse())
			Expect(result.Data).To(Equal(uint64(0x0102030405060708)))

			Expect(c.Read(0x100, 8).Hit).To(BeTrue())
			Expect(c.Read(0x120, 8).Hit).To(BeTrue())
		})

		It("should miss if only one line of a straddling access is present", func() {
			c.Read(0x100, 8)

			result := c.Read(0x11c, 8)

			Expect(result.Hit).To(BeFalse())
			Expect(result.Latency).To(Equal(uint64(10)))
		})
	})

	Describe("Write operations", func() {
		It("should write-allocate on miss", func() {
			result := c.Write(0x40, 8, 0x1234)
			Expect(result.Hit).To(BeFalse())

			read := c.Read(0x40, 8)
			Expect(read.Hit).To(BeTrue())
			Expect(read.Data).To(Equal(uint64(0x1234)))
		})

		It("should leave functional memory to the emulator", func() {
			c.Write(0x40, 8, 0x1234)
			c.Flush()

			v, err := memory.Read64(0x40)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(uint64(0)))
		})
	})

	Describe("Eviction", func() {
		// With 4 sets of 32B lines, 0x000, 0x080 and 0x100 share set 0.
		It("should evict the least recently used line", func() {
			c.Read(0x000, 8)
			c.Read(0x080, 8)
			c.Read(0x000, 8)

			result := c.Read(0x100, 8)
			Expect(result.Evicted).To(BeTrue())
			Expect(result.EvictedAddr).To(Equal(uint64(0x080)))

			Expect(c.Read(0x000, 8).Hit).To(BeTrue())
			Expect(c.Read(0x080, 8).Hit).To(BeFalse())
			Expect(c.Stats().Evictions).To(Equal(uint64(2)))
		})

		It("should write back dirty evicted blocks", func() {
			backing := newRecordingBacking()
			c = cache.New(cache.DefaultDataCacheConfig(), backing)

			c.Write(0x000, 8, 0xaa)
			c.Read(0x080, 8)
			c.Read(0x100, 8)

			Expect(backing.writebacks).To(Equal([]uint64{0x000}))
			Expect(backing.bytes[0x000]).To(Equal(byte(0xaa)))
			Expect(c.Stats().Writebacks).To(Equal(uint64(1)))
		})

		It("should not write back clean blocks", func() {
			backing := newRecordingBacking()
			c = cache.New(cache.DefaultDataCacheConfig(), backing)

			c.Read(0x000, 8)
			c.Read(0x080, 8)
			c.Read(0x100, 8)

			Expect(backing.writebacks).To(BeEmpty())
		})
	})

	Describe("Flush", func() {
		It("should write back all dirty blocks", func() {
			backing := newRecordingBacking()
			c = cache.New(cache.DefaultDataCacheConfig(), backing)

			c.Write(0x000, 8, 1)
			c.Write(0x020, 8, 2)
			c.Read(0x040, 8)
			c.Flush()

			Expect(backing.writebacks).To(ConsistOf(uint64(0x000), uint64(0x020)))
			Expect(c.Read(0x000, 8).Hit).To(BeFalse())
		})
	})

	Describe("Invalidate and Reset", func() {
		It("should drop an invalidated line", func() {
			c.Read(0x60, 8)
			c.Invalidate(0x64)

			Expect(c.Read(0x60, 8).Hit).To(BeFalse())
		})

		It("should clear lines and statistics", func() {
			c.Read(0x60, 8)
			c.Reset()

			Expect(c.Stats()).To(Equal(cache.Statistics{}))
			Expect(c.Read(0x60, 8).Hit).To(BeFalse())
		})
	})

	Describe("Default configuration", func() {
		It("should describe a 256B 2-way cache with 32B lines", func() {
			config := cache.DefaultDataCacheConfig()
			Expect(config.Size).To(Equal(256))
			Expect(config.Associativity).To(Equal(2))
			Expect(config.BlockSize).To(Equal(32))
			Expect(c.Config()).To(Equal(config))
		})

		It("should report a zero hit rate before any access", func() {
			Expect(c.Stats().HitRate()).To(Equal(0.0))
		})
	})
})
