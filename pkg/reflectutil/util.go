package reflectutil

import "reflect"

// PartialEqual compares the fields of two struct pointers, ignoring the
// fields which are zero in a.
func PartialEqual[T any](a T, b T) bool {
	va := reflect.ValueOf(a).Elem()
	vb := reflect.ValueOf(b).Elem()

	for i := 0; i < va.NumField(); i++ {
		fieldA := va.Field(i)
		fieldB := vb.Field(i)

		if fieldA.IsZero() {
			continue
		}

		if !reflect.DeepEqual(fieldA.Interface(), fieldB.Interface()) {
			return false
		}
	}

	return true
}

// OverwriteNonZero copies every non-zero field of overwrite into origin.
func OverwriteNonZero[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		field := overwriteValue.Field(i)
		if !field.IsZero() {
			originValue.Field(i).Set(field)
		}
	}
}
