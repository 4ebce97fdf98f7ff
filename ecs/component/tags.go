package component

type ParasiteTag struct{}

var ParasiteTagComponent = NewComponent[ParasiteTag]()

type AITag struct{}

var AITagComponent = NewComponent[AITag]()

type CameraTag struct{}

var CameraTagComponent = NewComponent[CameraTag]()

type DeadTag struct{}

var DeadTagComponent = NewComponent[DeadTag]()
