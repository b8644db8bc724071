package memory

import (
	"math"

	"github.com/talgya/memkeep/internal/ident"
)

// ProficiencyLevel buckets a procedural memory's proficiency score for
// display and teach/learn gating.
type ProficiencyLevel uint8

const (
	ProficiencyNovice ProficiencyLevel = iota
	ProficiencyBeginner
	ProficiencyIntermediate
	ProficiencyAdvanced
	ProficiencyExpert
)

// AsFloat32 returns the level's representative numeric value.
func (l ProficiencyLevel) AsFloat32() float32 {
	switch l {
	case ProficiencyNovice:
		return 0.0
	case ProficiencyBeginner:
		return 0.25
	case ProficiencyIntermediate:
		return 0.5
	case ProficiencyAdvanced:
		return 0.75
	default:
		return 1.0
	}
}

// ProficiencyFromScore maps a raw proficiency score to its bucket.
func ProficiencyFromScore(score float32) ProficiencyLevel {
	switch {
	case score < 0.15:
		return ProficiencyNovice
	case score < 0.35:
		return ProficiencyBeginner
	case score < 0.60:
		return ProficiencyIntermediate
	case score < 0.85:
		return ProficiencyAdvanced
	default:
		return ProficiencyExpert
	}
}

// maxRepsToExpert is the theoretical repetition count needed to reach expert
// proficiency under the logarithmic learning curve below.
const maxRepsToExpert = 1000.0

// Procedural is a learned skill or behavioral routine that improves with
// practice and atrophies slowly without it — "what I know how to do."
// Grounded in Anderson's ACT-R theory of procedural learning.
type Procedural struct {
	ID                ident.MemoryID      `json:"id"`
	Skill             string              `json:"skill"`
	Proficiency       float32             `json:"proficiency"`
	Repetitions       uint32              `json:"repetitions"`
	LastPracticed     ident.GameTimestamp `json:"last_practiced"`
	LearningRate      float32             `json:"learning_rate"`
	RelatedSkills     []ident.MemoryID    `json:"related_skills"`
	RoutineDescription string             `json:"routine_description"`
	CreatedAt         ident.GameTimestamp `json:"created_at"`
}

// NewProcedural constructs a procedural memory for a newly attempted skill.
func NewProcedural(skill string, ts ident.GameTimestamp, learningRate float32) *Procedural {
	return &Procedural{
		ID:            ident.NewMemoryID(),
		Skill:         skill,
		LastPracticed: ts,
		LearningRate:  clamp(learningRate, 0.01, 2.0),
		CreatedAt:     ts,
	}
}

// Practice records one repetition, advancing proficiency along a
// logarithmic learning curve:
//
//	proficiency = learning_rate × ln(1+repetitions) / ln(1+max_reps_to_expert)
func (m *Procedural) Practice(ts ident.GameTimestamp) {
	m.Repetitions++
	m.LastPracticed = ts
	progress := math.Log(1+float64(m.Repetitions)) / math.Log(1+maxRepsToExpert)
	m.Proficiency = clamp(m.LearningRate*float32(progress), 0, 1)
}

// Decay attenuates proficiency for lack of practice. Procedural memory
// decays far slower than episodic memory — roughly 37% retained after a
// year without practice.
func (m *Procedural) Decay(daysSincePractice float32) {
	factor := float32(math.Exp(float64(-daysSincePractice / 365.0)))
	m.Proficiency = maxf32(m.Proficiency*factor, 0)
}

// Level returns the current proficiency bucket.
func (m *Procedural) Level() ProficiencyLevel {
	return ProficiencyFromScore(m.Proficiency)
}

// CanTeach reports whether this agent is proficient enough to teach the
// skill to another.
func (m *Procedural) CanTeach() bool {
	return m.Proficiency >= ProficiencyAdvanced.AsFloat32()
}

// ApplyTransfer boosts proficiency from a related skill's proficiency,
// scaled by a transfer rate.
func (m *Procedural) ApplyTransfer(relatedProficiency, transferRate float32) {
	boost := relatedProficiency * transferRate * 0.1
	m.Proficiency = clamp(m.Proficiency+boost, 0, 1)
}
