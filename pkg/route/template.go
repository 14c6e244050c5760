package route

// Template is one of the four internal-link route shapes.
type Template int

const (
	// TemplateClearRight: target clearly to the right. Exit right, run
	// vertically, enter the target's left side.
	TemplateClearRight Template = iota + 1
	// TemplateTightRight: target slightly to the right. Exit left to loop
	// back around the source, enter the target's left side.
	TemplateTightRight
	// TemplateTightLeft: target slightly to the left or straight above/below.
	// Exit right, loop, enter the target's right side.
	TemplateTightLeft
	// TemplateClearLeft: target clearly to the left. Exit left, enter the
	// target's right side.
	TemplateClearLeft
)

// String returns a short name for logs
func (t Template) String() string {
	switch t {
	case TemplateClearRight:
		return "clear-right"
	case TemplateTightRight:
		return "tight-right"
	case TemplateTightLeft:
		return "tight-left"
	case TemplateClearLeft:
		return "clear-left"
	}
	return "unknown"
}

// SelectTemplate picks the route shape from dx = targetX - fromX:
//
//	dx >= distance          clear right
//	0 < dx < distance       tight right
//	-distance < dx <= 0     tight left
//	dx <= -distance         clear left
func SelectTemplate(fromX, targetX, distance float64) Template {
	dx := targetX - fromX
	switch {
	case dx >= distance:
		return TemplateClearRight
	case dx > 0:
		return TemplateTightRight
	case dx > -distance:
		return TemplateTightLeft
	default:
		return TemplateClearLeft
	}
}
