package domain

// OccurrenceList is the controlled occurrence vocabulary (Transport Canada / SMS).
var OccurrenceList = []string{
	"Accident - crash",
	"Aerodrome - foreign authorities involved",
	"Aerodrome - labour action",
	"Aerodrome - operations",
	"Aerodrome - other",
	"Aerodrome - power failure",
	"Aerodrome - runway or taxiway surface condition",
	"Aerodrome - visual aids",
	"Aerodrome noise",
	"Aerodrome property - death/injury",
	"Aerodrome, runway or taxiway shutdown",
	"Aircraft incident - conflict - unsafe operation",
	"Aircraft incident - fuel - other",
	"Aircraft incident - minor damage",
	"Aircraft navigation/communication equipment",
	"Airframe failure",
	"Airspeed Limitations - Deviation from CARs",
	"Alleged Canadian Aviation Regulations (CARs) infraction",
	"Animal strike (or risk of collision with animal)",
	"ATM - ILS irregularity",
	"ATM - inaccurate aeronautical information",
	"ATM - NAVAIDS/radar",
	"ATM - operations",
	"ATM - other",
	"ATM - weather observation systems",
	"ATS operating irregularity",
	"Bird presence",
	"Bird strike",
	"Blown tire/wheel failure",
	"Blue ice",
	"Brakes - failure",
	"Brakes - frozen",
	"Brakes - other",
	"Brakes - overheated",
	"Brakes",
	"Class F airspace violation",
	"Collision midair",
	"Collision on ground with aircraft",
	"Collision on ground with person",
	"Collision on ground",
	"Collision with object",
	"Collision with terrain",
	"Communication error",
	"Communication navigation surveillance/air traffic system",
	"Conflict - IFR & VFR",
	"Conflict - loss of separation",
	"Conflict - near collision  (VFR or IFR)",
	"Conflict - potential",
	"Controlled airspace - unauthorized entry",
	"Crew incapacitation",
	"Dangerous cargo problems (on board)",
	"Dangerous goods/hazardous materials",
	"Declared emergency/priority",
	"Decompression/pressurization",
	"Disruptive passenger",
	"Diversion",
	"Door/canopy openings indications",
	"Electrical problem",
	"ELT",
	"Engine - malfunction",
	"Engine failure",
	"Engine oil problem",
	"Engine shut down",
	"Evacuation (aircraft)",
	"External load",
	"False indication warning",
	"False warning - smoke or fire",
	"Fire - aircraft (cockpit, cargo or passenger area)",
	"Fire - engine",
	"Fire/smoke (warning)",
	"Flight control systems (ailerons, rudder, rotors, flaps, main, tail)",
	"Flight instrument failure",
	"Flight plan – activation",
	"Flight plan – information",
	"Flight plan – route",
	"FOD (foreign object debris)",
	"Forced landing",
	"Fuel - contamination",
	"Fuel - dumping",
	"Fuel - exhaustion",
	"Fuel - incorrect fuel",
	"Fuel - leak",
	"Fuel - low/declared minimum",
	"Fuel - other",
	"Fuel - spill",
	"Fuel - starvation",
	"Fuel management",
	"GPWS/TAWS alert",
	"Ground handling services",
	"Hard landing",
	"Hydraulic problem",
	"IFR operations below minimum",
	"Incursion - manoeuvring area",
	"Incursion - runway - aircraft",
	"Incursion - runway - animal",
	"Incursion - runway - pedestrian",
	"Incursion - runway - vehicle",
	"Landing gear - incorrect configuration",
	"Landing gear",
	"Landing in proximity of the intended surface",
	"Laser interference",
	"Loss of control - inflight",
	"Loss of control - on ground",
	"Loss of power",
	"Mechanical/technical malfunction of aircraft - other",
	"Medical emergency",
	"Missing aircraft",
	"Natural disaster (environment)",
	"Navigation assistance",
	"Navigation error",
	"Nose over",
	"Object dropped from aircraft",
	"Other operational incident",
	"Overshoot/missed approach",
	"Overturn",
	"Parachute-related event",
	"Parked aircraft damage",
	"Part or pieces separate from an aircraft",
	"Precautionary landing",
	"Propeller/rotor strike",
	"Public complaint",
	"Regulatory - other infraction",
	"Regulatory - weather infraction",
	"Rejected take-off",
	"Roll over",
	"Runway excursion",
	"SAR/comm search",
	"Security acts",
	"Smoke/fumes - aircraft",
	"Tail strike",
	"Take-off without clearance",
	"TCAS alert",
	"Transmission problem",
	"Wake turbulence/vortices",
	"Weather - clear air turbulence (CAT)/turbulence",
	"Weather - icing",
	"Weather - lightning",
	"Weather - other",
	"Weather - precipitation",
	"Weather - visibility",
	"Weather - wind shear",
	"Weather - wind",
	"Weather balloon, meteor, rocket, CIRVIS/UFO",
	"Windshield/window (aircraft)",
	"Wing strike",
	"Wire strike",
	"Regulatory - Altitude infraction",
	"Regulatory - 500 ft Alt infraction training",
	"School - Training manuel respect",
	"Carburator icing",
}
