package ordering

// Modules is the ordered set of modules of a training.
var Modules = Collection{
	Table:        "training_modules",
	ParentTable:  "trainings",
	ParentColumn: "training_id",
	ParentLabel:  "Training",
	ChildLabel:   "Module",
}

// Lessons is the ordered set of lessons of a module. The module's training
// is locked too, so lessons cannot land in a training being deleted.
var Lessons = Collection{
	Table:          "lessons",
	ParentTable:    "training_modules",
	ParentColumn:   "module_id",
	ParentLabel:    "Module",
	ChildLabel:     "Lesson",
	AncestorTable:  "trainings",
	AncestorColumn: "training_id",
}
