package viewmodels

type ViewerLogin struct {
	BaseViewModel
}
