package dhlparcel

// constructorGuard marks values built by their constructor so that zero
// values can be told apart from validated ones.
type constructorGuard struct {
	constructed bool
}

func newConstructorGuard() constructorGuard {
	return constructorGuard{constructed: true}
}

func (g constructorGuard) validate(err error) error {
	if !g.constructed {
		return err
	}
	return nil
}
