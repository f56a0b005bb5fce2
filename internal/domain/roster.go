package domain

// Technicians is the fixed roster offered on the update form.
var Technicians = []string{"Jeandre", "Dekel", "Rob", "Aiden", "Jakes", "Jaco", "Norman", "Karabo"}
