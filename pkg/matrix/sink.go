package matrix

// RealStamper is the narrow real-valued stamping interface that
// *RealSystem satisfies, so a test double can stand in for it.
type RealStamper interface {
	AddElement(i, j int, value float64)
	AddRHS(i int, value float64)
}

// ComplexStamper is the narrow complex-valued stamping interface that
// *ComplexMatrix satisfies, so a test double can stand in for it.
type ComplexStamper interface {
	AddElement(i, j int, value complex128)
}
