package main

import (
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/go-logr/logr/funcr"
	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/rawbytedev/ownership"
	"github.com/rawbytedev/ownership/pkg/intrusive"
	"github.com/rawbytedev/ownership/pkg/shared"
	"github.com/rawbytedev/ownership/pkg/unique"
)

type payload struct {
	Val      []string
	Integers []int16
	Float6   []float64
}

type counted struct {
	intrusive.RefCounted
	payload
}

type report struct {
	Iterations  int                `yaml:"iterations"`
	AllocsPerOp map[string]float64 `yaml:"allocs_per_op"`
}

// measure returns the average number of heap allocations per call of fn.
func measure(n int, fn func()) float64 {
	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	for i := 0; i < n; i++ {
		fn()
	}
	runtime.ReadMemStats(&after)
	return float64(after.Mallocs-before.Mallocs) / float64(n)
}

func main() {
	iterations := flag.Int("iterations", 10000, "number of runs per measured operation")
	heapProfile := flag.String("heap-profile", "mem.prof", "file the heap profile is written to")
	pprofAddr := flag.String("pprof-addr", "", "serve net/http/pprof on this address while holding")
	hold := flag.Duration("hold", 0, "keep the process alive after measuring")
	verbosity := flag.IntP("verbosity", "v", 0, "lifecycle trace verbosity")
	flag.Parse()

	ownership.SetLogger(funcr.New(func(prefix, args string) {
		log.Println(prefix, args)
	}, funcr.Options{Verbosity: *verbosity}))

	if *pprofAddr != "" {
		go func() {
			log.Println(http.ListenAndServe(*pprofAddr, nil))
		}()
	}
	f, err := os.Create(*heapProfile)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	runtime.MemProfileRate = 1

	z := payload{
		Val:      []string{"azerty", "hello", "world", "random"},
		Integers: []int16{100, 250, 300},
		Float6:   []float64{100.5, 165.63, 153.5},
	}
	n := *iterations
	r := report{Iterations: n, AllocsPerOp: map[string]float64{}}

	r.AllocsPerOp["shared.New"] = measure(n, func() {
		p := z
		sp := shared.New(&p)
		sp.Reset()
	})
	r.AllocsPerOp["shared.Make"] = measure(n, func() {
		sp := shared.Make(z)
		sp.Reset()
	})
	held := shared.Make(z)
	r.AllocsPerOp["shared.Clone"] = measure(n, func() {
		c := held.Clone()
		c.Reset()
	})
	w := held.Weak()
	r.AllocsPerOp["shared.Weak.Lock"] = measure(n, func() {
		l := w.Lock()
		l.Reset()
	})
	r.AllocsPerOp["intrusive.Make"] = measure(n, func() {
		ip := intrusive.Make[counted](func(c *counted) { c.payload = z })
		ip.Reset()
	})
	r.AllocsPerOp["unique.New"] = measure(n, func() {
		p := z
		u := unique.New(&p)
		u.Reset()
	})
	pool := unique.NewPool(func() *payload { return &payload{} }, nil)
	r.AllocsPerOp["unique.Pool.Get"] = measure(n, func() {
		u := pool.Get()
		u.Reset()
	})
	w.Reset()
	held.Reset()

	out, err := yaml.Marshal(r)
	if err != nil {
		log.Fatal(err)
	}
	os.Stdout.Write(out)

	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Fatal(err)
	}
	time.Sleep(*hold)
}
