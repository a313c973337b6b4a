package scene

// StageRecord is the per-stage audit trail the runner accumulates: the
// narrative nodes played and the settlement result, if any. Records are
// keyed by stage id and written at most once per stage. A branch that
// loops back to an earlier stage replays narrative to the caller but not
// into the history.
type StageRecord struct {
	StageID   string `json:"stage_id"`
	Narrative []Node `json:"narrative,omitempty"`
	ResultKey string `json:"result_key,omitempty"`
}

// Runner walks one scene's directed stage graph, one narrative node at a
// time, branching on settlement outcomes or explicit choices.
//
// The caller (the UI, via the game facade) drives the runner: play nodes
// with NextNode until the stage end, resolve the stage's settlement if it
// has one, then advance.
type Runner struct {
	def       *Definition
	state     *State
	current   *Stage
	nodeIndex int
	done      bool
	history   []StageRecord
	recorded  map[string]int
	visits    map[string]int
}

// NewRunner creates a runner over the scene's graph, bound to its state.
func NewRunner(def *Definition, state *State) *Runner {
	return &Runner{
		def:      def,
		state:    state,
		recorded: make(map[string]int),
		visits:   make(map[string]int),
	}
}

// Start enters the entry stage, or the state's current stage when
// resuming mid-scene from a save. It returns false when the stage does
// not exist in the graph.
func (r *Runner) Start() bool {
	stageID := r.def.Entry
	if r.state.CurrentStageID != "" {
		stageID = r.state.CurrentStageID
	}
	stage := r.def.StageByID(stageID)
	if stage == nil {
		return false
	}
	r.enter(stage)
	return true
}

// Current returns the stage the runner is positioned on, or nil before
// Start or after completion.
func (r *Runner) Current() *Stage {
	return r.current
}

// Done reports whether the scene's narrative has terminated.
func (r *Runner) Done() bool {
	return r.done
}

// NextNode returns the next narrative node of the current stage, or nil
// at the stage end. Played nodes are recorded into the stage's history
// record on the stage's first visit only.
func (r *Runner) NextNode() *Node {
	if r.done || r.current == nil || r.nodeIndex >= len(r.current.Nodes) {
		return nil
	}
	node := &r.current.Nodes[r.nodeIndex]
	r.nodeIndex++
	if r.visits[r.current.ID] == 1 {
		idx := r.recorded[r.current.ID]
		r.history[idx].Narrative = append(r.history[idx].Narrative, *node)
	}
	return node
}

// AtStageEnd reports whether every node of the current stage has played.
func (r *Runner) AtStageEnd() bool {
	return r.current != nil && r.nodeIndex >= len(r.current.Nodes)
}

// HasSettlement reports whether the current stage carries a settlement
// config that must resolve before advancing.
func (r *Runner) HasSettlement() bool {
	return r.current != nil && r.current.Settlement != nil
}

// SettlementConfig returns the current stage's settlement config, or nil.
func (r *Runner) SettlementConfig() *Settlement {
	if r.current == nil {
		return nil
	}
	return r.current.Settlement
}

// AdvanceByResult records the settlement result for the current stage
// and follows the matching branch: first the branch keyed by the result,
// then the default branch, else the scene completes. It returns false
// once the runner is done.
func (r *Runner) AdvanceByResult(resultKey string) bool {
	if r.done || r.current == nil {
		return false
	}

	r.state.RecordStageResult(r.current.ID, resultKey)
	if idx, ok := r.recorded[r.current.ID]; ok {
		r.history[idx].ResultKey = resultKey
	}

	if r.current.Final {
		r.finish()
		return true
	}
	to, ok := r.current.Branch(resultKey)
	if !ok {
		to, ok = r.current.Branch(BranchDefault)
	}
	if !ok {
		r.finish()
		return true
	}
	return r.jump(to)
}

// AdvanceAuto advances a settled-or-settlement-free stage via its
// default branch, terminating when none exists or the stage is final.
func (r *Runner) AdvanceAuto() bool {
	if r.done || r.current == nil {
		return false
	}
	if r.current.Final {
		r.finish()
		return true
	}
	to, ok := r.current.Branch(BranchDefault)
	if !ok {
		r.finish()
		return true
	}
	return r.jump(to)
}

// AdvanceByChoice jumps directly to the named stage, bypassing branch
// lookup. Used for in-stage narrative choices. Unknown stages are a
// denial.
func (r *Runner) AdvanceByChoice(stageID string) bool {
	if r.done {
		return false
	}
	return r.jump(stageID)
}

// History returns the accumulated per-stage records in visit order.
func (r *Runner) History() []StageRecord {
	out := make([]StageRecord, len(r.history))
	copy(out, r.history)
	return out
}

func (r *Runner) jump(stageID string) bool {
	stage := r.def.StageByID(stageID)
	if stage == nil {
		return false
	}
	r.enter(stage)
	return true
}

func (r *Runner) enter(stage *Stage) {
	r.current = stage
	r.nodeIndex = 0
	r.state.CurrentStageID = stage.ID
	r.visits[stage.ID]++
	if _, ok := r.recorded[stage.ID]; !ok {
		r.history = append(r.history, StageRecord{StageID: stage.ID})
		r.recorded[stage.ID] = len(r.history) - 1
	}
}

func (r *Runner) finish() {
	r.done = true
	r.current = nil
	r.state.CurrentStageID = ""
}
