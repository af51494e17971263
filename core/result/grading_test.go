package result

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func iPtr(i int) *int         { return &i }
func fPtr(f float64) *float64 { return &f }
func marks(c float64, m int) Subject {
	return Subject{Credits: c, Marks: iPtr(m)}
}

func TestGradePointForMarks(t *testing.T) {
	tests := []struct {
		marks int
		want  int
	}{
		{marks: 100, want: 10},
		{marks: 90, want: 10},
		{marks: 89, want: 9},
		{marks: 80, want: 9},
		{marks: 79, want: 8},
		{marks: 70, want: 8},
		{marks: 69, want: 7},
		{marks: 60, want: 7},
		{marks: 59, want: 6},
		{marks: 50, want: 6},
		{marks: 49, want: 5},
		{marks: 45, want: 5},
		{marks: 44, want: 4},
		{marks: 40, want: 4},
		{marks: 39, want: 0},
		{marks: 0, want: 0},
	}
	for _, tt := range tests {
		if got := GradePointForMarks(tt.marks); got != tt.want {
			t.Errorf("GradePointForMarks(%d) = %d, want %d", tt.marks, got, tt.want)
		}
	}
}

func TestGradePointForMarks_monotonic(t *testing.T) {
	prev := GradePointForMarks(0)
	for m := 1; m <= 100; m++ {
		gp := GradePointForMarks(m)
		if gp < prev {
			t.Fatalf("GradePointForMarks(%d) = %d < GradePointForMarks(%d) = %d", m, gp, m-1, prev)
		}
		prev = gp
	}
}

func TestGradePointForLetter(t *testing.T) {
	tests := []struct {
		letter string
		want   float64
		wantOk bool
	}{
		{letter: "O", want: 10, wantOk: true},
		{letter: "S+", want: 10, wantOk: true},
		{letter: "S", want: 9, wantOk: true},
		{letter: "a+", want: 9, wantOk: true},
		{letter: " A ", want: 8, wantOk: true},
		{letter: "B", want: 7, wantOk: true},
		{letter: "C", want: 6, wantOk: true},
		{letter: "D", want: 5, wantOk: true},
		{letter: "E", want: 4, wantOk: true},
		{letter: "F", want: 0, wantOk: true},
		{letter: "", wantOk: false},
		{letter: "Z", wantOk: false},
	}
	for _, tt := range tests {
		got, ok := GradePointForLetter(tt.letter)
		if ok != tt.wantOk || got != tt.want {
			t.Errorf("GradePointForLetter(%q) = (%v, %v), want (%v, %v)", tt.letter, got, ok, tt.want, tt.wantOk)
		}
	}
}

func TestComputeSGPA(t *testing.T) {
	tests := []struct {
		name     string
		subjects []Subject
		want     float64
	}{
		{name: "nil", subjects: nil, want: 0},
		{name: "empty", subjects: []Subject{}, want: 0},
		{
			name:     "no grade data",
			subjects: []Subject{{Code: "18CS51", Credits: 4}, {Code: "18CS52", Credits: 3}},
			want:     0,
		},
		{name: "zero credits", subjects: []Subject{marks(0, 95), marks(0, 40)}, want: 0},
		{name: "weighted marks", subjects: []Subject{marks(4, 90), marks(3, 60)}, want: 8.71},
		{
			name:     "grade points override marks",
			subjects: []Subject{{Credits: 4, Marks: iPtr(95), GradePoints: fPtr(6)}, marks(4, 85)},
			want:     7.5,
		},
		{
			name:     "subjects without data do not count credits",
			subjects: []Subject{marks(4, 90), {Credits: 20}, {Credits: 3, GradePoints: fPtr(7)}},
			want:     8.71,
		},
		{name: "fails", subjects: []Subject{marks(4, 39), marks(2, 10)}, want: 0},
		{name: "all tens", subjects: []Subject{marks(4, 100), {Credits: 1, GradePoints: fPtr(10)}}, want: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeSGPA(tt.subjects))
		})
	}
}

func TestComputeSGPA_orderInvariant(t *testing.T) {
	subjects := []Subject{
		marks(4, 91), marks(4, 77), marks(3, 64), marks(3, 48),
		{Credits: 2, GradePoints: fPtr(9)}, {Credits: 1, GradePoints: fPtr(4)}, {Credits: 3},
	}
	want := ComputeSGPA(subjects)

	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		shuffled := append([]Subject(nil), subjects...)
		rnd.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		if got := ComputeSGPA(shuffled); got != want {
			t.Fatalf("ComputeSGPA(shuffled) = %v, want %v", got, want)
		}
	}
}

func TestComputeSGPA_inRange(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		subjects := make([]Subject, rnd.Intn(10))
		for j := range subjects {
			subjects[j].Credits = float64(rnd.Intn(5))
			switch rnd.Intn(3) {
			case 0:
				subjects[j].Marks = iPtr(rnd.Intn(101))
			case 1:
				subjects[j].GradePoints = fPtr(float64(rnd.Intn(11)))
			}
		}
		if got := ComputeSGPA(subjects); got < 0 || got > 10 {
			t.Fatalf("ComputeSGPA(%+v) = %v, want within [0, 10]", subjects, got)
		}
	}
}

func TestCredits(t *testing.T) {
	subjects := []Subject{marks(4, 90), {Credits: 3}, {Credits: 2, GradePoints: fPtr(8)}}
	assert.Equal(t, 6.0, IncludedCredits(subjects))
	assert.Equal(t, 9.0, TotalCredits(subjects))
	assert.Equal(t, 0.0, IncludedCredits(nil))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 9.57, Round2(67.0/7.0))
	assert.Equal(t, 8.33, Round2(25.0/3.0))
	assert.Equal(t, 8.67, Round2(26.0/3.0))
	assert.Equal(t, 0.0, Round2(0))
}
