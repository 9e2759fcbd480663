// Package cpu exposes the host's logical CPU, physical core, and NUMA
// node layout, read once from sysfs and cached for the life of the
// process.
package cpu

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/joinframework/join-sub004/logging"
)

const (
	cpuSysfsRoot  = "/sys/devices/system/cpu"
	nodeSysfsRoot = "/sys/devices/system/node"
)

// LogicalCPU is one schedulable hardware thread, identified by its
// kernel-assigned index.
type LogicalCPU struct {
	Index int
}

// PhysicalCore is a set of logical CPU indices that share a physical
// core (SMT siblings), with one designated primary thread: the
// lowest-numbered sibling.
type PhysicalCore struct {
	ID            int
	LogicalCPUs   []int
	PrimaryThread int
}

// NumaNode is a set of logical CPU indices local to one NUMA node.
type NumaNode struct {
	ID          int
	LogicalCPUs []int
}

// Topology is the host's CPU/NUMA layout.
type Topology struct {
	cpus  []LogicalCPU
	cores []PhysicalCore
	nodes []NumaNode
}

// LogicalCPUs returns every logical CPU, ordered by index.
func (t *Topology) LogicalCPUs() []LogicalCPU { return t.cpus }

// Cores returns every physical core, ordered by ID.
func (t *Topology) Cores() []PhysicalCore { return t.cores }

// Nodes returns every NUMA node, ordered by ID.
func (t *Topology) Nodes() []NumaNode { return t.nodes }

// Dump renders a human-readable summary for diagnostics.
func (t *Topology) Dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cpus=%d cores=%d nodes=%d\n", len(t.cpus), len(t.cores), len(t.nodes))
	for _, c := range t.cores {
		fmt.Fprintf(&b, "  core %d: cpus=%v primary=%d\n", c.ID, c.LogicalCPUs, c.PrimaryThread)
	}
	for _, n := range t.nodes {
		fmt.Fprintf(&b, "  node %d: cpus=%v\n", n.ID, n.LogicalCPUs)
	}
	return b.String()
}

var (
	once     sync.Once
	topology *Topology
)

// Get returns the process-wide Topology singleton, reading sysfs on
// first call. Unreadable or partial sysfs data never fails the call: a
// single-core, single-node view is synthesized instead, guaranteeing at
// least one core and one node.
func Get() *Topology {
	once.Do(func() {
		topology = read()
	})
	return topology
}

func read() *Topology {
	log := logging.Named("cpu")

	cpus, err := readLogicalCPUs()
	if err != nil || len(cpus) == 0 {
		log.Warn().Err(err).Msg("falling back to single-core topology")
		return fallback()
	}

	cores, err := readCores(cpus)
	if err != nil || len(cores) == 0 {
		log.Warn().Err(err).Msg("falling back to single-core topology")
		return fallback()
	}

	nodes, err := readNodes(cpus)
	if err != nil || len(nodes) == 0 {
		// NUMA-less hosts are common; synthesize a single node owning
		// every logical CPU rather than falling all the way back.
		idx := make([]int, len(cpus))
		for i, c := range cpus {
			idx[i] = c.Index
		}
		nodes = []NumaNode{{ID: 0, LogicalCPUs: idx}}
	}

	return &Topology{cpus: cpus, cores: cores, nodes: nodes}
}

func fallback() *Topology {
	return &Topology{
		cpus:  []LogicalCPU{{Index: 0}},
		cores: []PhysicalCore{{ID: 0, LogicalCPUs: []int{0}, PrimaryThread: 0}},
		nodes: []NumaNode{{ID: 0, LogicalCPUs: []int{0}}},
	}
}

func readLogicalCPUs() ([]LogicalCPU, error) {
	entries, err := os.ReadDir(cpuSysfsRoot)
	if err != nil {
		return nil, err
	}

	var idx []int
	for _, e := range entries {
		i, ok := parseCPUDirName(e.Name())
		if !ok {
			continue
		}
		if _, err := os.Stat(filepath.Join(cpuSysfsRoot, e.Name(), "topology")); err != nil {
			continue
		}
		idx = append(idx, i)
	}
	if len(idx) == 0 {
		return nil, fmt.Errorf("cpu: no cpuN entries with a topology directory under %s", cpuSysfsRoot)
	}
	sort.Ints(idx)

	cpus := make([]LogicalCPU, len(idx))
	for i, v := range idx {
		cpus[i] = LogicalCPU{Index: v}
	}
	return cpus, nil
}

func parseCPUDirName(name string) (int, bool) {
	if !strings.HasPrefix(name, "cpu") {
		return 0, false
	}
	rest := name[len("cpu"):]
	if rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

func readCores(cpus []LogicalCPU) ([]PhysicalCore, error) {
	byCoreID := make(map[int][]int)

	for _, c := range cpus {
		coreID, err := readIntFile(filepath.Join(cpuSysfsRoot, fmt.Sprintf("cpu%d", c.Index), "topology", "core_id"))
		if err != nil {
			return nil, err
		}
		pkgID, err := readIntFile(filepath.Join(cpuSysfsRoot, fmt.Sprintf("cpu%d", c.Index), "topology", "physical_package_id"))
		if err != nil {
			pkgID = 0
		}
		// Physical cores are unique per (package, core_id) pair; fold
		// the package into the key so two packages' core 0 don't merge.
		key := pkgID*1_000_000 + coreID
		byCoreID[key] = append(byCoreID[key], c.Index)
	}

	keys := make([]int, 0, len(byCoreID))
	for k := range byCoreID {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	cores := make([]PhysicalCore, 0, len(keys))
	for i, k := range keys {
		siblings := byCoreID[k]
		sort.Ints(siblings)
		cores = append(cores, PhysicalCore{
			ID:            i,
			LogicalCPUs:   siblings,
			PrimaryThread: siblings[0],
		})
	}
	return cores, nil
}

func readNodes(cpus []LogicalCPU) ([]NumaNode, error) {
	entries, err := os.ReadDir(nodeSysfsRoot)
	if err != nil {
		return nil, err
	}

	var nodes []NumaNode
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "node") {
			continue
		}
		id, err := strconv.Atoi(strings.TrimPrefix(e.Name(), "node"))
		if err != nil {
			continue
		}
		cpulist, err := readCPUList(filepath.Join(nodeSysfsRoot, e.Name(), "cpulist"))
		if err != nil || len(cpulist) == 0 {
			continue
		}
		nodes = append(nodes, NumaNode{ID: id, LogicalCPUs: cpulist})
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("cpu: no usable node entries under %s", nodeSysfsRoot)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes, nil
}

func readIntFile(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(b)))
}

// readCPUList parses the kernel's "list" format, e.g. "0-3,8,10-11".
func readCPUList(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return nil, scanner.Err()
	}
	return parseCPUList(scanner.Text())
}

func parseCPUList(text string) ([]int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	var out []int
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			loN, err := strconv.Atoi(lo)
			if err != nil {
				return nil, err
			}
			hiN, err := strconv.Atoi(hi)
			if err != nil {
				return nil, err
			}
			for i := loN; i <= hiN; i++ {
				out = append(out, i)
			}
		} else {
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
	}
	return out, nil
}
