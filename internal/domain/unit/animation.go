package unit

// FrameOp is one instruction of an animation script
type FrameOp string

const (
	OpFrame            FrameOp = "frame"
	OpWait             FrameOp = "wait"
	OpUnbreakableBegin FrameOp = "unbreakable-begin"
	OpUnbreakableEnd   FrameOp = "unbreakable-end"
)

// Frame is a scripted animation step
type Frame struct {
	Op  FrameOp
	Arg int
}

// Animation is a named looping frame script
type Animation struct {
	Name   string
	Frames []Frame
}

// AnimState is the per-unit playback cursor
type AnimState struct {
	Current     string
	Frame       int
	Wait        int
	Sprite      int
	Unbreakable bool
}

// AnimationPlayer advances animation scripts one frame per call
type AnimationPlayer struct{}

// Play advances anim on u by one simulated frame. Switching to another script
// restarts its cursor. Unbreakable sections keep u.Anim.Unbreakable set until
// their end marker has been played.
func (AnimationPlayer) Play(u *Unit, anim *Animation) {
	if anim == nil || len(anim.Frames) == 0 {
		return
	}

	s := &u.Anim
	if s.Current != anim.Name {
		s.Current = anim.Name
		s.Frame = 0
		s.Wait = 0
	}

	if s.Wait > 0 {
		s.Wait--
		return
	}

	for steps := 0; steps < len(anim.Frames); steps++ {
		if s.Frame >= len(anim.Frames) {
			s.Frame = 0
		}
		f := anim.Frames[s.Frame]
		s.Frame++

		switch f.Op {
		case OpFrame:
			s.Sprite = f.Arg
		case OpUnbreakableBegin:
			s.Unbreakable = true
		case OpUnbreakableEnd:
			s.Unbreakable = false
		case OpWait:
			if f.Arg > 1 {
				s.Wait = f.Arg - 1
			}
			return
		}
	}
}

// ParseFrameOp validates an op name from a scenario file
func ParseFrameOp(s string) (FrameOp, bool) {
	switch op := FrameOp(s); op {
	case OpFrame, OpWait, OpUnbreakableBegin, OpUnbreakableEnd:
		return op, true
	default:
		return "", false
	}
}
